package docstore

import (
	"context"

	"coqueta/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor returns a Transactor for the store. Session transactions
// need a replica set, so they are only used when the store was configured
// with transactions on; otherwise fn runs without a session and Atomic is
// false.
func (s *Store) NewTransactor() repository.Transactor {
	return &transactor{client: s.client, enabled: s.transactions}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (t *transactor) Atomic() bool { return t.enabled }
