package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"rolloff/shared/base64"
	"rolloff/shared/constant"
	"rolloff/shared/failure"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	bytesPerMB   = 1 << 20
	amountPlaces = 2
)

var (
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	maxAmount  = decimal.New(1, 10)
)

// rules are the tags this service adds on top of the library's built in ones.
var rules = map[string]val.Func{
	// mimetypes=image/png image/jpeg checks the media type of a data URL.
	"mimetypes": func(fl val.FieldLevel) bool {
		contentType := base64.GetContentType(fl.Field().String())

		return contentType != constant.Empty && slices.Contains(strings.Fields(fl.Param()), contentType)
	},
	// maxfilesize=2 limits the decoded size of a data URL, in megabytes.
	"maxfilesize": func(fl val.FieldLevel) bool {
		limit, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}

		_, payload, _ := strings.Cut(fl.Field().String(), ",")

		return float64(len(payload)/4*3) <= limit*bytesPerMB
	},
	"zipcode": func(fl val.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	},
	"isodate": func(fl val.FieldLevel) bool {
		_, err := time.Parse(constant.DateOnlyFormat, fl.Field().String())

		return err == nil
	},
	// decimal accepts amounts with at most two decimal places and a magnitude below ten billion.
	"decimal": func(fl val.FieldLevel) bool {
		amount, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}

		return amount.Equal(amount.Truncate(amountPlaces)) && amount.Abs().LessThan(maxAmount)
	},
}

var engine = sync.OnceValue(func() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonName)

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
})

// jsonName reports fields by their JSON key so messages match what the client sent.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == constant.Empty || name == "-" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and checks its validate tags. Both decode and rule
// failures come back as a 400 failure.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("invalid request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := engine().Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := engine().Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
