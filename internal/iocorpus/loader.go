// Package iocorpus loads seed text files into the documents table.
// This is an impure I/O package that implements lifecycle.CorpusLoader.
package iocorpus

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/saintfish/chardet"
)

const upsertSQL = `INSERT INTO documents (filename, content)
VALUES ($1, $2)
ON CONFLICT (filename) DO UPDATE SET content = EXCLUDED.content`

type loader struct {
	ext      string
	progress Progress
}

// Option configures a loader.
type Option func(*loader)

// OptProgress reports loading of every file to p.
func OptProgress(p Progress) Option {
	return func(l *loader) {
		l.progress = p
	}
}

// NewLoader creates a CorpusLoader for files with the given extension,
// for example ".txt". The match is case-sensitive.
func NewLoader(ext string, opts ...Option) lifecycle.CorpusLoader {
	res := &loader{ext: ext, progress: noProgress{}}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Load upserts every matching file of dir by filename. Files that are not
// valid UTF-8 or cannot be read are logged and skipped. Any database error
// stops the load, the caller is expected to roll back.
func (l *loader) Load(
	ctx context.Context,
	q db.Querier,
	dir string,
) (*lifecycle.CorpusStats, error) {
	res := &lifecycle.CorpusStats{}
	if q == nil {
		return res, NotConnectedError()
	}

	files, err := l.listFiles(dir)
	if err != nil {
		slog.Warn("Corpus directory is not available, nothing to load",
			"dir", dir, "error", err)
		return res, nil
	}

	l.progress.Start(len(files))
	defer l.progress.Finish()

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return res, CancelledError(res.Processed, err)
		}

		content, reason := readText(filepath.Join(dir, name))
		l.progress.Increment()
		if reason != "" {
			res.Skipped++
			res.SkippedFiles = append(res.SkippedFiles, name)
			continue
		}

		if _, err := q.Exec(ctx, upsertSQL, name, content); err != nil {
			return res, UpsertError(name, err)
		}
		res.Processed++
		slog.Debug("Corpus file loaded", "file", name, "bytes", len(content))
	}

	slog.Info("Corpus loaded",
		"dir", dir,
		"processed", res.Processed,
		"skipped", res.Skipped,
	)
	return res, nil
}

// listFiles returns names of regular files with the loader's extension.
// os.ReadDir sorts entries by name. Names starting with a dot match too.
func (l *loader) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var res []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != l.ext {
			continue
		}
		// follows symlinks
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		res = append(res, name)
	}
	return res, nil
}

// readText returns file content, or a non-empty reason why the file
// has to be skipped.
func readText(path string) (string, string) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Cannot read corpus file, skipping", "file", name, "error", err)
		return "", "read error"
	}

	if !utf8.Valid(data) {
		slog.Warn("Corpus file is not valid UTF-8, skipping",
			"file", name, "charset", detectCharset(data))
		return "", "not utf-8"
	}

	// PostgreSQL TEXT cannot store NUL, the insert would abort the
	// whole bootstrap transaction.
	if bytes.IndexByte(data, 0) >= 0 {
		slog.Warn("Corpus file contains NUL bytes, skipping", "file", name)
		return "", "nul byte"
	}

	return normalizeNewlines(string(data)), ""
}

// normalizeNewlines converts CRLF and lone CR line endings to LF.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return newlines.Replace(s)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func detectCharset(data []byte) string {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return "unknown"
	}
	return res.Charset
}
