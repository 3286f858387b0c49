package config

import "github.com/pkg/errors"

var (
	ErrEmptyProviderName         = errors.New("empty provider name")
	ErrProviderAlreadyRegistered = errors.New("provider already registered")
	ErrProviderNotRegistered     = errors.New("provider not registered")
	ErrNoProviderRegistred       = errors.New("no configuration providers registered")
)
