// Package schema provides database schema models for GNdocs.
// Struct tags drive both the bootstrap DDL (db, ddl) and the GORM
// mapping used by the analysis store (gorm, json).
package schema

import (
	"gorm.io/datatypes"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE IF NOT EXISTS statement for this
	// model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX IF NOT EXISTS statements for this
	// model. Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// Document is a stored text file.
type Document struct {
	// ID is assigned by the documents_id_seq generator, or explicitly by
	// the upload path as max(id)+1.
	ID int64 `db:"id" ddl:"SERIAL PRIMARY KEY" gorm:"column:id;primaryKey" json:"id"`

	// Filename is unique across all documents. Corpus loading uses it as
	// the upsert key.
	Filename string `db:"filename" ddl:"TEXT UNIQUE" gorm:"column:filename" json:"filename"`

	// Content is the full UTF-8 text of the document.
	Content string `db:"content" ddl:"TEXT" gorm:"column:content" json:"content"`
}

// Analysis keeps linguistic analysis of a document. There is at most one
// analysis per document and it is deleted together with the document.
type Analysis struct {
	ID int64 `db:"id" ddl:"SERIAL PRIMARY KEY" gorm:"column:id;primaryKey" json:"-"`

	// DocumentID refers to the owning document.
	DocumentID int64 `db:"document_id" ddl:"INTEGER UNIQUE REFERENCES documents(id) ON DELETE CASCADE" gorm:"column:document_id" json:"document_id"`

	Tokens       datatypes.JSON `db:"tokens" ddl:"JSONB" gorm:"column:tokens;type:jsonb" json:"tokens"`
	Lemmas       datatypes.JSON `db:"lemmas" ddl:"JSONB" gorm:"column:lemmas;type:jsonb" json:"lemmas"`
	Morphs       datatypes.JSON `db:"morphs" ddl:"JSONB" gorm:"column:morphs;type:jsonb" json:"morphs"`
	Dependencies datatypes.JSON `db:"dependencies" ddl:"JSONB" gorm:"column:dependencies;type:jsonb" json:"dependencies"`
	Entities     datatypes.JSON `db:"entities" ddl:"JSONB" gorm:"column:entities;type:jsonb" json:"entities"`
	WordVectors  datatypes.JSON `db:"word_vectors" ddl:"JSONB" gorm:"column:word_vectors;type:jsonb" json:"word_vectors"`
}

// AllModels returns schema models in creation order. Documents go first
// because analyses reference them.
func AllModels() []DDLGenerator {
	return []DDLGenerator{
		Document{},
		Analysis{},
	}
}
