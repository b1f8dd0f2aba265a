// Package ioanalysis implements store.AnalysisStore with GORM on top
// of the shared pgx pool. Each field of an analysis is kept in its own
// JSONB column.
package ioanalysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/gnames/gndocs/pkg/schema"
	"github.com/gnames/gndocs/pkg/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// foreignKeyViolation is the SQLSTATE of a reference to a missing row.
const foreignKeyViolation = "23503"

var analysisColumns = []string{
	"tokens",
	"lemmas",
	"morphs",
	"dependencies",
	"entities",
	"word_vectors",
}

type analysisStore struct {
	db *gorm.DB
}

// NewStore creates an AnalysisStore that shares connections with pool.
func NewStore(pool *pgxpool.Pool) (store.AnalysisStore, error) {
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return &analysisStore{db: gormDB}, nil
}

// Store inserts the analysis of a document or replaces the existing one.
func (s *analysisStore) Store(
	ctx context.Context,
	documentID int64,
	res *nlp.Result,
) error {
	row, err := toModel(documentID, res)
	if err != nil {
		return StoreError(documentID, err)
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns(analysisColumns),
	}).Create(row).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return DocumentMissingError(documentID, err)
		}
		return StoreError(documentID, err)
	}

	slog.Info("Analysis stored",
		"document_id", documentID,
		"tokens", len(res.Tokens),
	)
	return nil
}

// Get returns the stored analysis of a document.
func (s *analysisStore) Get(ctx context.Context, documentID int64) (*nlp.Result, error) {
	var row schema.Analysis
	err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError(documentID)
	}
	if err != nil {
		return nil, QueryError("get analysis", err)
	}

	res, err := fromModel(&row)
	if err != nil {
		return nil, QueryError("decode analysis", err)
	}
	return res, nil
}

// Delete removes the analysis of a document.
func (s *analysisStore) Delete(ctx context.Context, documentID int64) error {
	tx := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&schema.Analysis{})
	if tx.Error != nil {
		return QueryError("delete analysis", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return NotFoundError(documentID)
	}
	slog.Info("Analysis deleted", "document_id", documentID)
	return nil
}

// Count returns the number of stored analyses.
func (s *analysisStore) Count(ctx context.Context) (int64, error) {
	var res int64
	err := s.db.WithContext(ctx).Model(&schema.Analysis{}).Count(&res).Error
	if err != nil {
		return 0, QueryError("count analyses", err)
	}
	return res, nil
}

func toModel(documentID int64, res *nlp.Result) (*schema.Analysis, error) {
	row := &schema.Analysis{DocumentID: documentID}
	fields := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&row.Tokens, res.Tokens},
		{&row.Lemmas, res.Lemmas},
		{&row.Morphs, res.Morphs},
		{&row.Dependencies, res.Dependencies},
		{&row.Entities, res.Entities},
		{&row.WordVectors, res.WordVectors},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = datatypes.JSON(data)
	}
	return row, nil
}

func fromModel(row *schema.Analysis) (*nlp.Result, error) {
	res := &nlp.Result{
		Tokens:       []string{},
		Lemmas:       [][2]string{},
		Morphs:       []nlp.Morph{},
		Dependencies: [][3]string{},
		Entities:     [][2]string{},
		WordVectors:  []nlp.WordVector{},
	}
	fields := []struct {
		src datatypes.JSON
		dst any
	}{
		{row.Tokens, &res.Tokens},
		{row.Lemmas, &res.Lemmas},
		{row.Morphs, &res.Morphs},
		{row.Dependencies, &res.Dependencies},
		{row.Entities, &res.Entities},
		{row.WordVectors, &res.WordVectors},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, err
		}
	}
	return res, nil
}
