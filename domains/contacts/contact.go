package contacts

import (
	"github.com/soldatov-s/go-contacts/x/phone"
	"github.com/soldatov-s/go-contacts/x/stringsx"
)

type Contact struct {
	Name  string
	Phone phone.Phone
	// Valid is false for stored phones which are not ten digits.
	Valid bool
}

func newContact(name string, rec Record) Contact {
	p, err := phone.Normalize(rec.Phone)
	if err != nil {
		return Contact{
			Name:  name,
			Phone: phone.Phone{Raw: stringsx.DigitsOnly(rec.Phone), Display: rec.Phone},
		}
	}

	return Contact{Name: name, Phone: p, Valid: true}
}

func (c Contact) Initials() string {
	return Initials(c.Name)
}
