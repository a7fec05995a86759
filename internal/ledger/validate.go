package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fichapp/internal/costing"
)

var validate = validator.New()

func init() {
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := validate.RegisterValidation("purchase_date", func(fl validator.FieldLevel) bool {
		_, err := costing.ParsePurchaseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("ledger: register purchase_date rule: %v", err))
	}
}

// Check runs struct validation and turns failures into a ValidationError using the
// supplied messages, keyed by form field name.
func Check(input any, messages map[string]string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		message, ok := messages[fe.Field()]
		if !ok {
			message = "Check the " + strings.ReplaceAll(fe.Field(), "_", " ") + " field."
		}
		if _, seen := verr.Fields[fe.Field()]; seen {
			continue
		}
		verr.Fields[fe.Field()] = message
		if verr.Reason == "" {
			verr.Reason = message
		}
	}
	return verr
}
