// Package iodocs implements store.DocumentStore with pgx.
package iodocs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/gnames/gndocs/pkg/schema"
	"github.com/gnames/gndocs/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE of a unique constraint
// violation.
const uniqueViolation = "23505"

// Pool is the part of pgxpool.Pool used by the document store.
type Pool interface {
	db.Querier
	db.TxBeginner
}

type docStore struct {
	pool Pool
	seq  lifecycle.SequenceRepairer
}

// NewStore creates a DocumentStore. Explicit-ID inserts are followed
// by sr.Repair in the same transaction.
func NewStore(pool Pool, sr lifecycle.SequenceRepairer) store.DocumentStore {
	return &docStore{pool: pool, seq: sr}
}

// List returns id and filename of all documents ordered by id.
func (s *docStore) List(ctx context.Context) ([]store.DocumentInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename FROM documents ORDER BY id`)
	if err != nil {
		return nil, QueryError("list documents", err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowToStructByName[store.DocumentInfo])
	if err != nil {
		return nil, QueryError("list documents", err)
	}
	return res, nil
}

// Get returns a document by id.
func (s *docStore) Get(ctx context.Context, id int64) (*schema.Document, error) {
	var doc schema.Document
	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, content FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFoundError(id)
	}
	if err != nil {
		return nil, QueryError("get document", err)
	}
	return &doc, nil
}

// Insert stores data under filename, or under the first free
// alternative name. The new document receives max(id)+1. Two
// concurrent inserts may compute the same id, the loser gets
// IDConflictError and can retry.
func (s *docStore) Insert(
	ctx context.Context,
	filename string,
	data []byte,
) (*store.DocumentInfo, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, NotUTF8Error(filename)
	}

	var res store.DocumentInfo
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var maxID int64
		err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(id), 0) FROM documents`).Scan(&maxID)
		if err != nil {
			return QueryError("find max document id", err)
		}
		res.ID = maxID + 1

		res.Filename, err = freeName(ctx, tx, filename)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO documents (id, filename, content) VALUES ($1, $2, $3)`,
			res.ID, res.Filename, string(data))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return IDConflictError(res.ID, res.Filename, err)
			}
			return QueryError("insert document", err)
		}

		_, err = s.seq.Repair(ctx, tx)
		return err
	})
	if err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) {
			return nil, err
		}
		return nil, QueryError("insert document", err)
	}

	slog.Info("Document uploaded", "id", res.ID, "filename", res.Filename)
	return &res, nil
}

// freeName returns filename or its first alternative that is not
// used by a stored document.
func freeName(ctx context.Context, q db.Querier, filename string) (string, error) {
	candidate := filename
	for n := 1; ; n++ {
		var taken bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM documents WHERE filename = $1)`,
			candidate,
		).Scan(&taken)
		if err != nil {
			return "", QueryError("check filename", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = store.AltName(filename, n)
	}
}

// Delete removes a document, its analysis goes with it.
func (s *docStore) Delete(ctx context.Context, id int64) (*store.DocumentInfo, error) {
	res := store.DocumentInfo{ID: id}
	err := s.pool.QueryRow(ctx,
		`DELETE FROM documents WHERE id = $1 RETURNING filename`, id,
	).Scan(&res.Filename)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFoundError(id)
	}
	if err != nil {
		return nil, QueryError("delete document", err)
	}
	slog.Info("Document deleted", "id", id, "filename", res.Filename)
	return &res, nil
}

// Count returns the number of documents.
func (s *docStore) Count(ctx context.Context) (int64, error) {
	var res int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&res)
	if err != nil {
		return 0, QueryError("count documents", err)
	}
	return res, nil
}
