// Package vcard builds vCard 3.0 text for a list of contacts.
package vcard

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	MIMEType        = "text/vcard"
	FileExtension   = ".vcf"
	DefaultFileName = "contacts" + FileExtension

	crlf = "\r\n"
)

var ErrEmptySelection = errors.New("no contacts selected")

// Card is a single exported contact.
type Card struct {
	Name     string
	RawPhone string
}

type Encoder struct {
	escape bool
}

type Option func(*Encoder)

// WithoutEscaping writes names as is. Names with ';', ',' or '\' produce
// malformed cards.
func WithoutEscaping() Option {
	return func(e *Encoder) {
		e.escape = false
	}
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{escape: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func (e *Encoder) text(s string) string {
	if !e.escape {
		return s
	}
	return textEscaper.Replace(s)
}

func (e *Encoder) card(c Card) string {
	name := e.text(c.Name)
	return strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + name,
		"N:;" + name + ";;;",
		"TEL;TYPE=CELL:" + c.RawPhone,
		"END:VCARD",
	}, crlf)
}

// Encode returns all cards joined by CRLF without trailing separator.
func (e *Encoder) Encode(cards []Card) (string, error) {
	if len(cards) == 0 {
		return "", ErrEmptySelection
	}

	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		blocks = append(blocks, e.card(c))
	}

	return strings.Join(blocks, crlf), nil
}

// Write encodes cards into w.
func (e *Encoder) Write(w io.Writer, cards []Card) error {
	data, err := e.Encode(cards)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, data); err != nil {
		return errors.Wrap(err, "write vcard")
	}

	return nil
}

// Export encodes cards with the default escaping encoder.
func Export(cards []Card) (string, error) {
	return NewEncoder().Encode(cards)
}
