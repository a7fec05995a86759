package ledger

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// ParseDecimal reads a number typed by an operator. Both "1234.56" and the Brazilian
// "1.234,56" are accepted, as is a leading "R$". Without a comma, dots are thousands
// separators when there are several of them or when the only one is followed by
// exactly three digits, so "1.234" is 1234 while "0.125" and "12.5" keep their
// fraction. Blank input is zero.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSpace(strings.TrimPrefix(value, "R$"))
	value = strings.TrimSuffix(value, "%")
	value = strings.ReplaceAll(value, " ", "")
	if value == "" {
		return decimal.Zero, nil
	}
	switch {
	case strings.Contains(value, ","):
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	case groupedThousands(value):
		value = strings.ReplaceAll(value, ".", "")
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", raw)
	}
	return parsed, nil
}

func groupedThousands(value string) bool {
	dots := strings.Count(value, ".")
	if dots > 1 {
		return true
	}
	if dots == 0 {
		return false
	}
	whole, fraction, _ := strings.Cut(strings.TrimPrefix(value, "-"), ".")
	return len(fraction) == 3 && whole != "" && !strings.HasPrefix(whole, "0")
}

// DecodeForm copies form values into the string and decimal fields of dst, a pointer
// to a struct tagged with `form`. Fields that cannot be read as numbers are reported
// in the returned ValidationError; the remaining fields are still decoded.
func DecodeForm(values url.Values, dst any) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode form: expected pointer to struct, got %T", dst)
	}
	target = target.Elem()
	targetType := target.Type()

	var verr *ValidationError
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		if _, present := values[name]; !present {
			continue
		}
		raw := values.Get(name)

		switch {
		case field.Type.Kind() == reflect.String:
			target.Field(i).SetString(raw)
		case field.Type == decimalType:
			parsed, err := ParseDecimal(raw)
			if err != nil {
				if verr == nil {
					verr = &ValidationError{Fields: map[string]string{}}
				}
				message := "Enter a number in the " + strings.ReplaceAll(name, "_", " ") + " field."
				verr.Fields[name] = message
				if verr.Reason == "" {
					verr.Reason = message
				}
				continue
			}
			target.Field(i).Set(reflect.ValueOf(parsed))
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}
