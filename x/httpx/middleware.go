package httpx

import "net/http"

// MiddleWareFunc wraps http.Handler.
type MiddleWareFunc func(http.Handler) http.Handler
