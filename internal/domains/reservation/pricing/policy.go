package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"rolloff/config"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed policies.yaml
var defaultPolicies []byte

const (
	PolicySelfServe  = "self_serve"
	PolicyAdminPhone = "admin_phone"
)

var (
	ErrUnknownPolicy  = errors.New("unknown pricing policy")
	ErrUnknownChannel = errors.New("no pricing policy configured for channel")
)

// Policy holds the rates of one named pricing scheme.
type Policy struct {
	Name            string          `yaml:"-"                json:"name"`
	IncludedDays    int             `yaml:"included_days"    json:"included_days"`
	IncludedTonnage int             `yaml:"included_tonnage" json:"included_tonnage"`
	ExtraDayRate    decimal.Decimal `yaml:"extra_day_rate"   json:"extra_day_rate"`
	TonnageRate     decimal.Decimal `yaml:"tonnage_rate"     json:"tonnage_rate"`
	ApplianceRate   decimal.Decimal `yaml:"appliance_rate"   json:"appliance_rate"`
	TravelFee       decimal.Decimal `yaml:"travel_fee"       json:"travel_fee"`
}

func (p Policy) validate() error {
	if p.IncludedDays < 0 || p.IncludedTonnage < 0 {
		return fmt.Errorf("policy %s: included allowances must not be negative", p.Name)
	}

	for name, rate := range map[string]decimal.Decimal{
		"extra_day_rate": p.ExtraDayRate,
		"tonnage_rate":   p.TonnageRate,
		"appliance_rate": p.ApplianceRate,
		"travel_fee":     p.TravelFee,
	} {
		if rate.IsNegative() {
			return fmt.Errorf("policy %s: %s must not be negative", p.Name, name)
		}
	}

	return nil
}

type policyFile struct {
	Policies map[string]Policy `yaml:"policies"`
}

// Engine resolves named policies and the channel that selects each of them.
type Engine struct {
	policies map[string]Policy
	channels map[string]string
}

// ParsePolicies decodes a policies document.
func ParsePolicies(data []byte) (map[string]Policy, error) {
	var file policyFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode pricing policies: %w", err)
	}

	if len(file.Policies) == 0 {
		return nil, errors.New("pricing policies document defines no policy")
	}

	policies := make(map[string]Policy, len(file.Policies))

	for name, policy := range file.Policies {
		policy.Name = name

		if err := policy.validate(); err != nil {
			return nil, err
		}

		policies[name] = policy
	}

	return policies, nil
}

// DefaultPolicies returns the policies bundled with the binary.
func DefaultPolicies() (map[string]Policy, error) {
	return ParsePolicies(defaultPolicies)
}

// NewEngine builds an engine from explicit policies and a channel to policy mapping.
func NewEngine(policies map[string]Policy, channels map[string]string) (*Engine, error) {
	for channel, name := range channels {
		if _, ok := policies[name]; !ok {
			return nil, fmt.Errorf("%w: channel %s refers to %s", ErrUnknownPolicy, channel, name)
		}
	}

	return &Engine{
		policies: policies,
		channels: channels,
	}, nil
}

// New loads the embedded policies, or PRICING_POLICY_FILE when set.
func New(cfg *config.Config) *Engine {
	data := defaultPolicies

	if file := cfg.Pricing.PolicyFile; file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read pricing policy file")
		}

		data = content
	}

	policies, err := ParsePolicies(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load pricing policies")
	}

	engine, err := NewEngine(policies, cfg.Pricing.ChannelPolicies)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure pricing channels")
	}

	log.Info().Strs("policies", engine.Names()).Msg("Pricing policies loaded")

	return engine
}

func (e *Engine) Policy(name string) (Policy, error) {
	policy, ok := e.policies[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}

	return policy, nil
}

func (e *Engine) PolicyForChannel(channel string) (Policy, error) {
	name, ok := e.channels[channel]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	return e.Policy(name)
}

func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.policies))
	for name := range e.policies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
