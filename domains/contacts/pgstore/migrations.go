package pgstore

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/x/sqlx/migrations"
)

func init() {
	migrations.RegisterMigration(&migrations.InCode{
		Name: "00001_create_contacts.go",
		Up:   createContactsUp,
		Down: createContactsDown,
	})
}

func createContactsUp(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS contacts (
		name       TEXT PRIMARY KEY,
		phone      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return errors.Wrap(err, "create contacts table")
}

func createContactsDown(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS contacts`)
	return errors.Wrap(err, "drop contacts table")
}
