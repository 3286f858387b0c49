package base

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/x/stringsx"
)

// Enity holds the name and lifecycle flags shared by every provider
// connection (database, cache, broker, http server).
type Enity struct {
	name           string
	providerName   string
	mu             sync.RWMutex
	shuttingDown   bool
	watcherStopped bool
}

type EnityDeps struct {
	Name         string
	ProviderName string
}

func NewEnity(deps *EnityDeps) *Enity {
	return &Enity{
		name:           deps.Name,
		providerName:   deps.ProviderName,
		watcherStopped: true,
	}
}

func (e *Enity) GetName() string {
	return e.name
}

func (e *Enity) GetProviderName() string {
	return e.providerName
}

func (e *Enity) GetFullName() string {
	return stringsx.JoinStrings("_", e.providerName, e.name)
}

func (e *Enity) GetLogger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().
		Str("provider_type", e.providerName).
		Str("enity_name", e.name).
		Logger()
	return &logger
}

func (e *Enity) IsShuttingDown() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shuttingDown
}

func (e *Enity) SetShuttingDown(v bool) {
	e.mu.Lock()
	e.shuttingDown = v
	e.mu.Unlock()
}

func (e *Enity) IsWatcherStopped() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.watcherStopped
}

func (e *Enity) SetWatcher(stopped bool) {
	e.mu.Lock()
	e.watcherStopped = stopped
	e.mu.Unlock()
}
