// Package permissions maps API routes to the staff roles allowed to call them.
package permissions

import (
	_ "embed"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed permissions.yaml
var policyFile []byte

// Rule is the access rule of one route. A route with no rule is open to any authenticated caller.
type Rule struct {
	Method string   `yaml:"method"`
	Path   string   `yaml:"path"`
	Public bool     `yaml:"public"`
	Allow  string   `yaml:"allow"`
	Roles  []string `yaml:"-"`
}

// Allows reports whether role may call the route. Rules without roles let every role through.
func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

type Policy struct {
	Groups map[string][]string `yaml:"groups"`
	Routes []Rule              `yaml:"routes"`

	index map[string]Rule
}

// Lookup finds the rule of a chi route pattern. Subrouter index routes end with a slash, so a
// trailing slash is ignored.
func (p *Policy) Lookup(method, pattern string) Rule {
	if p == nil {
		return Rule{}
	}

	return p.index[routeKey(method, pattern)]
}

func routeKey(method, pattern string) string {
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	return strings.ToUpper(method) + " " + pattern
}

// Parse decodes a policy document and resolves every rule's group into its roles.
func Parse(raw []byte) (*Policy, error) {
	var policy Policy

	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	policy.index = make(map[string]Rule, len(policy.Routes))

	for i, rule := range policy.Routes {
		if rule.Allow != "" {
			roles, ok := policy.Groups[rule.Allow]
			if !ok {
				return nil, fmt.Errorf("route %s %s allows unknown group %q", rule.Method, rule.Path, rule.Allow)
			}

			rule.Roles = roles
		}

		switch rule.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil, fmt.Errorf("route %s has unsupported method %q", rule.Path, rule.Method)
		}

		policy.Routes[i] = rule
		policy.index[routeKey(rule.Method, rule.Path)] = rule
	}

	return &policy, nil
}

// Get loads the embedded policy. The service cannot enforce access without it, so a broken
// document stops startup.
func Get() *Policy {
	policy, err := Parse(policyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("routes", len(policy.Routes)).Msg("Loaded route permissions")

	return policy
}
