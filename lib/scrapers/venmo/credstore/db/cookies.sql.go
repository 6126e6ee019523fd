package db

import (
	"context"
)

const deleteAllCookies = `-- name: DeleteAllCookies :exec
DELETE FROM cookies
`

func (q *Queries) DeleteAllCookies(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllCookies)
	return err
}

const getCookie = `-- name: GetCookie :one
SELECT name, value FROM cookies WHERE name = ?
`

func (q *Queries) GetCookie(ctx context.Context, name string) (Cookie, error) {
	row := q.db.QueryRowContext(ctx, getCookie, name)
	var i Cookie
	err := row.Scan(&i.Name, &i.Value)
	return i, err
}

const listCookies = `-- name: ListCookies :many
SELECT name, value FROM cookies ORDER BY name
`

func (q *Queries) ListCookies(ctx context.Context) ([]Cookie, error) {
	rows, err := q.db.QueryContext(ctx, listCookies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Cookie
	for rows.Next() {
		var i Cookie
		if err := rows.Scan(&i.Name, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertCookie = `-- name: UpsertCookie :exec
INSERT INTO cookies (name, value)
VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value
`

type UpsertCookieParams struct {
	Name  string
	Value string
}

func (q *Queries) UpsertCookie(ctx context.Context, arg UpsertCookieParams) error {
	_, err := q.db.ExecContext(ctx, upsertCookie, arg.Name, arg.Value)
	return err
}
