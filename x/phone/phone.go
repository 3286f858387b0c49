// Package phone validates and formats North American phone numbers.
package phone

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/x/stringsx"
)

const (
	// Digits is the length of a canonical raw phone.
	Digits = 10
	// Region used for E.164 formatting.
	Region = "US"

	CodeInvalidLength = "invalid-length"
)

var ErrInvalidLength = errors.New("phone number must be a valid 10-digit number")

// ValidationError is a field-level error returned by Normalize.
type ValidationError struct {
	Code  string
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q", e.Code, e.Input)
}

// Is makes errors.Is(err, ErrInvalidLength) work for invalid-length errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidLength && e.Code == CodeInvalidLength
}

// Phone holds canonical raw digits and its display form.
type Phone struct {
	Raw     string
	Display string
}

// Normalize strips every non-digit from input and checks that exactly
// ten digits remain.
func Normalize(input string) (Phone, error) {
	digits := stringsx.DigitsOnly(input)
	if len(digits) != Digits {
		return Phone{}, &ValidationError{Code: CodeInvalidLength, Input: input}
	}

	return Phone{Raw: digits, Display: Format(digits)}, nil
}

// Format formats canonical raw digits as "(XXX) XXX-XXXX". Values which are
// not canonical are returned unchanged.
func Format(raw string) string {
	if len(raw) != Digits || stringsx.DigitsOnly(raw) != raw {
		return raw
	}

	return "(" + raw[0:3] + ") " + raw[3:6] + "-" + raw[6:10]
}

// E164 returns phone in E.164 form, e.g. "+15551234567".
func (p Phone) E164() string {
	parsed, err := phonenumbers.Parse(p.Raw, Region)
	if err != nil {
		return "+1" + p.Raw
	}

	return phonenumbers.Format(parsed, phonenumbers.E164)
}

func (p Phone) String() string {
	return p.Display
}
