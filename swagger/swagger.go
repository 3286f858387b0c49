package swagger

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrNotYetRegistered = errors.New("not yet registered swag")

var (
	swaggerMu sync.RWMutex
	swag      = make(map[string]Swagger)
)

// Swagger is a interface to read swagger document.
type Swagger interface {
	ReadDoc() string
}

// Register registers swagger for given name. First registration wins.
func Register(name string, swagger Swagger) {
	if swagger == nil {
		panic("swagger is nil")
	}

	swaggerMu.Lock()
	defer swaggerMu.Unlock()

	if _, ok := swag[name]; ok {
		return
	}

	swag[name] = swagger
}

// ReadDoc reads swagger document.
func ReadDoc(name string) (string, error) {
	swaggerMu.RLock()
	defer swaggerMu.RUnlock()

	s, ok := swag[name]
	if !ok {
		return "", errors.Wrapf(ErrNotYetRegistered, "name %q", name)
	}

	return s.ReadDoc(), nil
}
