package contacts

import "github.com/pkg/errors"

var (
	ErrNotFound  = errors.New("contact not found")
	ErrEmptyName = errors.New("contact name is empty")
)
