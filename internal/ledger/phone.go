package ledger

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone formats a supplier phone number as E.164 when it is a valid number
// for region. Anything else is kept as typed.
func NormalizePhone(raw, region string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.TrimSpace(region) == "" {
		region = "BR"
	}
	number, err := libphonenumber.Parse(trimmed, strings.ToUpper(region))
	if err != nil || !libphonenumber.IsValidNumber(number) {
		return trimmed
	}
	return libphonenumber.Format(number, libphonenumber.E164)
}
