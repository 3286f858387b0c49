package migrations

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose"
	"github.com/rs/zerolog"
)

const (
	ActionNothing = "nothing"
	ActionUp      = "up"
	ActionDown    = "down"

	// Go code migrations are registered in goose, the directory is only
	// scanned for SQL files.
	defaultDirectory = "."
)

var (
	ErrUnsupportedAction = errors.New("unsupported set of migration parameters")
	// ErrMigrateOnly is returned after successful migration when only
	// migration was requested.
	ErrMigrateOnly = errors.New("only database migrations was requested")
)

type Config struct {
	// Action for migration, may be: nothing, up, down
	Action string `envconfig:"optional"`
	// Count of applied/rollbacked migration, 0 means all
	Count int64 `envconfig:"optional"`
	// Directory is a path to SQL migrations
	Directory string `envconfig:"optional"`
	// Only migration, exit from service after migration
	Only bool `envconfig:"optional"`
	// Name of schema for goose version table
	Schema string `envconfig:"optional"`
}

// SetDefault checks migration options. If required field is empty - it will
// be filled with some default value.
// Returns a copy of config.
func (c *Config) SetDefault() *Config {
	if c == nil {
		c = &Config{}
	}
	cfgCopy := *c

	cfgCopy.Action = strings.ToLower(cfgCopy.Action)
	if cfgCopy.Action == "" {
		cfgCopy.Action = ActionNothing
	}

	if cfgCopy.Directory == "" {
		cfgCopy.Directory = defaultDirectory
	}

	return &cfgCopy
}

type Migrator struct {
	db      *sql.DB
	config  *Config
	mu      sync.Mutex
	dialect string
}

func NewMigrator(dialect string, conn *sql.DB, config *Config) *Migrator {
	return &Migrator{
		db:      conn,
		config:  config.SetDefault(),
		dialect: dialect,
	}
}

// Migrate migrates database. Migration is done once, reconnects do
// not trigger it again.
func (m *Migrator) Migrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().Str("subsystem", "database migrations").Logger()

	if m.config.Action == ActionNothing {
		logger.Debug().Msg("migrations are disabled")
		return m.onlyErr()
	}

	if err := m.migrateSchema(ctx); err != nil {
		return errors.Wrap(err, "execute schema migration")
	}

	if err := goose.SetDialect(m.dialect); err != nil {
		return errors.Wrap(err, "set dialect")
	}

	currentDBVersion, err := goose.GetDBVersion(m.db)
	if err != nil {
		return errors.Wrap(err, "get database version")
	}
	logger.Debug().Int64("database version", currentDBVersion).Msg("current database version obtained")

	if err := m.migrate(&logger, currentDBVersion); err != nil {
		return errors.Wrap(err, "execute migration sequence")
	}

	logger.Info().Msg("database migrated successfully")
	m.config.Action = ActionNothing

	return m.onlyErr()
}

func (m *Migrator) onlyErr() error {
	if m.config.Only {
		return ErrMigrateOnly
	}
	return nil
}

// InCode represents informational struct for database migration
// that was written as Go code. Name must start with version, e.g.
// "00001_create_contacts.go".
type InCode struct {
	Name string
	Down func(tx *sql.Tx) error
	Up   func(tx *sql.Tx) error
}

func RegisterMigration(migration *InCode) {
	goose.AddNamedMigration(migration.Name, migration.Up, migration.Down)
}

func (m *Migrator) migrate(logger *zerolog.Logger, currentDBVersion int64) error {
	switch {
	case m.config.Action == ActionUp && m.config.Count == 0:
		logger.Info().Msg("applying all unapplied migrations...")
		return goose.Up(m.db, m.config.Directory)
	case m.config.Action == ActionUp:
		newVersion := currentDBVersion + m.config.Count
		logger.Info().Int64("new version", newVersion).Msg("migrating database to specific version")
		return goose.UpTo(m.db, m.config.Directory, newVersion)
	case m.config.Action == ActionDown && m.config.Count == 0:
		logger.Warn().Msg("downgrading database to zero state, you'll need to re-apply migrations!")
		return goose.DownTo(m.db, m.config.Directory, 0)
	case m.config.Action == ActionDown:
		newVersion := currentDBVersion - m.config.Count
		logger.Info().Int64("new version", newVersion).Msg("downgrading database to specific version")
		return goose.DownTo(m.db, m.config.Directory, newVersion)
	default:
		return errors.Wrapf(ErrUnsupportedAction, "action %q, count %d", m.config.Action, m.config.Count)
	}
}

func (m *Migrator) migrateSchema(ctx context.Context) error {
	if m.config.Schema == "" {
		return nil
	}

	if _, err := m.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+m.config.Schema); err != nil {
		return errors.Wrap(err, "create schema")
	}
	goose.SetTableName(m.config.Schema + ".goose_db_version")

	return nil
}
