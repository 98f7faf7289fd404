package checkout

import (
	"errors"
	"fmt"
)

// FieldErrors collects per-field validation failures for one wizard
// step. The wizard refuses the transition and the caller surfaces the
// offending fields; the session itself stays where it was.
type FieldErrors struct {
	fields map[string][]string
}

func newFieldErrors() *FieldErrors {
	return &FieldErrors{fields: make(map[string][]string)}
}

func (fe *FieldErrors) add(field, msg string) {
	fe.fields[field] = append(fe.fields[field], msg)
}

func (fe *FieldErrors) Error() string {
	return fmt.Sprintf("%+v", fe.fields)
}

func (fe *FieldErrors) Fields() map[string][]string {
	return fe.fields
}

func (fe *FieldErrors) Count() int {
	return len(fe.fields)
}

// AsFieldErrors unwraps err into a *FieldErrors, or returns nil when
// the error is something else.
func AsFieldErrors(err error) *FieldErrors {
	if err == nil {
		return nil
	}

	var fe *FieldErrors
	if errors.As(err, &fe) {
		return fe
	}

	return nil
}
