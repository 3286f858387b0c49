package v1

import (
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

const Version = "1"

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger returns a new copy of API document on every call.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, errors.Wrap(err, "load openapi document")
	}

	return swagger, nil
}
