package ledger

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNoDatabase       = errors.New("ledger: database not configured")
	ErrPurchaseNotFound = errors.New("ledger: purchase not found")
	ErrDuplicateUnit    = errors.New("ledger: unit code already exists")
	ErrDuplicateGroup   = errors.New("ledger: group already exists")
	ErrUnknownParameter = errors.New("ledger: unknown financial parameter")
)

// ValidationError rejects an input before anything is persisted. Fields maps form
// field names to the message shown next to them.
type ValidationError struct {
	Reason string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, e.Fields[key])
	}
	return strings.Join(messages, " ")
}

// Field returns the message attached to a form field, if any.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// AsValidationError unwraps err into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
