// Package credstore persists the raw cookie values of a browsing session
// so it survives process restarts. It is a dumb name -> value map with
// last-write-wins semantics; staleness is the remote server's problem.
package credstore

import (
	"context"
	"database/sql"
	"errors"

	"venmoctl/lib/scrapers/venmo/credstore/db"
)

var ErrNotFound = errors.New("credential not found")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func New(database *sql.DB) (*Store, error) {
	_, err := database.Exec(db.Schema)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:  database,
		qry: db.New(database),
	}, nil
}

// Put stores the raw value under name, replacing any previous value.
func (s *Store) Put(ctx context.Context, name, value string) error {
	return s.qry.UpsertCookie(ctx, db.UpsertCookieParams{
		Name:  name,
		Value: value,
	})
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	row, err := s.qry.GetCookie(ctx, name)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

// ForEach calls fn for every persisted name/value pair. Returning an
// error from fn aborts the iteration.
func (s *Store) ForEach(ctx context.Context, fn func(name, value string) error) error {
	rows, err := s.qry.ListCookies(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		err := fn(row.Name, row.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every persisted credential.
func (s *Store) Clear(ctx context.Context) error {
	return s.qry.DeleteAllCookies(ctx)
}
