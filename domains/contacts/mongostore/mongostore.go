// Package mongostore keeps contacts in a mongo collection, one document
// per contact with the name as _id.
package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultCollection = "contacts"

type Config struct {
	Collection string `envconfig:"optional"`
	// Transactions enables multi-document transactions for rename.
	// Requires replica set.
	Transactions bool `envconfig:"optional"`
}

func (c *Config) SetDefault() *Config {
	cfgCopy := *c

	if cfgCopy.Collection == "" {
		cfgCopy.Collection = defaultCollection
	}

	return &cfgCopy
}

type document struct {
	Name  string `bson:"_id"`
	Phone string `bson:"phone"`
}

// DatabaseGetter is implemented by mongo provider enity.
type DatabaseGetter interface {
	Database() *mongo.Database
}

type Store struct {
	db     DatabaseGetter
	config *Config
}

// TxStore is returned when transactions are enabled.
type TxStore struct {
	*Store
}

// New returns a store implementing contacts.Transactor only with
// Transactions enabled.
func New(db DatabaseGetter, config *Config) contacts.Store {
	if config == nil {
		config = &Config{}
	}

	s := &Store{db: db, config: config.SetDefault()}
	if s.config.Transactions {
		return &TxStore{Store: s}
	}

	return s
}

func (s *Store) collection() *mongo.Collection {
	return s.db.Database().Collection(s.config.Collection)
}

func (s *Store) List(ctx context.Context) (map[string]contacts.Record, error) {
	cursor, err := s.collection().Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find contacts")
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode contacts")
	}

	result := make(map[string]contacts.Record, len(docs))
	for _, d := range docs {
		result[d.Name] = contacts.Record{Phone: d.Phone}
	}

	return result, nil
}

func (s *Store) Get(ctx context.Context, name string) (contacts.Record, error) {
	var doc document
	err := s.collection().FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return contacts.Record{}, errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}
	if err != nil {
		return contacts.Record{}, errors.Wrap(err, "find contact")
	}

	return contacts.Record{Phone: doc.Phone}, nil
}

func (s *Store) Put(ctx context.Context, name string, rec contacts.Record) error {
	_, err := s.collection().ReplaceOne(ctx,
		bson.M{"_id": name},
		document{Name: name, Phone: rec.Phone},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(err, "upsert contact")
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(err, "delete contact")
	}

	if res.DeletedCount == 0 {
		return errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}

	return nil
}

// WithinTransaction runs fn in a session transaction.
func (s *TxStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contacts.Store) error) error {
	session, err := s.db.Database().Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s.Store)
	})
	if err != nil {
		return errors.Wrap(err, "with transaction")
	}

	return nil
}
