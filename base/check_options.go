package base

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type CheckOptions struct {
	// Check name
	Name string
	// CheckFunc returns nil when the dependency is healthy, otherwise an
	// error describing why it is not.
	CheckFunc func(ctx context.Context) error
}

type MapCheckOptions struct {
	mu      sync.RWMutex
	options map[string]*CheckOptions
}

func NewMapCheckOptions() *MapCheckOptions {
	return &MapCheckOptions{
		options: make(map[string]*CheckOptions),
	}
}

func (mcf *MapCheckOptions) Append(src *MapCheckOptions) error {
	src.mu.RLock()
	defer src.mu.RUnlock()
	mcf.mu.Lock()
	defer mcf.mu.Unlock()

	for k, m := range src.options {
		if _, ok := mcf.options[k]; ok {
			return errors.Wrapf(ErrConflictName, "name: %s", k)
		}

		mcf.options[k] = m
	}

	return nil
}

func (mcf *MapCheckOptions) Add(options *CheckOptions) error {
	mcf.mu.Lock()
	defer mcf.mu.Unlock()

	if options == nil {
		return ErrOptionsIsNil
	}

	if options.Name == "" {
		return ErrEmptyOptionsName
	}

	if options.CheckFunc == nil {
		return ErrFuncIsNil
	}

	if _, ok := mcf.options[options.Name]; ok {
		return errors.Wrapf(ErrConflictName, "name: %s", options.Name)
	}

	mcf.options[options.Name] = options

	return nil
}

// Check runs every registered check and returns the name and error of the
// first failed one.
func (mcf *MapCheckOptions) Check(ctx context.Context) (string, error) {
	mcf.mu.RLock()
	defer mcf.mu.RUnlock()

	for name, opt := range mcf.options {
		if err := opt.CheckFunc(ctx); err != nil {
			return name, err
		}
	}

	return "", nil
}

func (mcf *MapCheckOptions) Len() int {
	mcf.mu.RLock()
	defer mcf.mu.RUnlock()
	return len(mcf.options)
}
