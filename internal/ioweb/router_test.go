package ioweb_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gndocs/internal/ioanalysis"
	"github.com/gnames/gndocs/internal/iodocs"
	"github.com/gnames/gndocs/internal/ioweb"
	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/gnames/gndocs/pkg/schema"
	"github.com/gnames/gndocs/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDocs is an in-memory DocumentStore.
type memDocs struct {
	docs      map[int64]schema.Document
	insertErr error
}

func (m *memDocs) List(context.Context) ([]store.DocumentInfo, error) {
	var res []store.DocumentInfo
	for _, d := range m.docs {
		res = append(res, store.DocumentInfo{ID: d.ID, Filename: d.Filename})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memDocs) Get(_ context.Context, id int64) (*schema.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, iodocs.NotFoundError(id)
	}
	return &d, nil
}

func (m *memDocs) Insert(_ context.Context, filename string, data []byte) (*store.DocumentInfo, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	if !utf8.Valid(data) {
		return nil, iodocs.NotUTF8Error(filename)
	}
	var maxID int64
	for id := range m.docs {
		maxID = max(maxID, id)
	}
	d := schema.Document{ID: maxID + 1, Filename: filename, Content: string(data)}
	m.docs[d.ID] = d
	return &store.DocumentInfo{ID: d.ID, Filename: d.Filename}, nil
}

func (m *memDocs) Delete(_ context.Context, id int64) (*store.DocumentInfo, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, iodocs.NotFoundError(id)
	}
	delete(m.docs, id)
	return &store.DocumentInfo{ID: d.ID, Filename: d.Filename}, nil
}

func (m *memDocs) Count(context.Context) (int64, error) {
	return int64(len(m.docs)), nil
}

// memAnalyses is an in-memory AnalysisStore.
type memAnalyses struct {
	data map[int64]*nlp.Result
}

func (m *memAnalyses) Store(_ context.Context, id int64, res *nlp.Result) error {
	m.data[id] = res
	return nil
}

func (m *memAnalyses) Get(_ context.Context, id int64) (*nlp.Result, error) {
	res, ok := m.data[id]
	if !ok {
		return nil, ioanalysis.NotFoundError(id)
	}
	return res, nil
}

func (m *memAnalyses) Delete(_ context.Context, id int64) error {
	if _, ok := m.data[id]; !ok {
		return ioanalysis.NotFoundError(id)
	}
	delete(m.data, id)
	return nil
}

func (m *memAnalyses) Count(context.Context) (int64, error) {
	return int64(len(m.data)), nil
}

type testEnv struct {
	router   *gin.Engine
	docs     *memDocs
	analyses *memAnalyses
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a, err := nlp.NewRuleAnalyzer()
	require.NoError(t, err)

	env := &testEnv{
		docs: &memDocs{docs: map[int64]schema.Document{
			1: {ID: 1, Filename: "a.txt", Content: "Alice went to Paris."},
			2: {ID: 2, Filename: "b.txt", Content: "Cats sleep."},
		}},
		analyses: &memAnalyses{data: map[int64]*nlp.Result{}},
	}
	env.router = ioweb.NewRouter(ioweb.Deps{
		Docs:     env.docs,
		Analyses: env.analyses,
		Analyzer: a,
		Ping:     func(context.Context) error { return nil },
	})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type errBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errBody {
	t.Helper()
	var res errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func uploadReq(t *testing.T, original, provided string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", original)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	if provided != "" {
		require.NoError(t, w.WriteField("filename", provided))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestIndex(t *testing.T) {
	env := newEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "gndocs", res.Service)
	assert.Contains(t, res.Endpoints, "POST /upload")
	assert.Len(t, res.Endpoints, 10)
}

func TestFiles(t *testing.T) {
	env := newEnv(t)

	t.Run("list", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/files", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`[{"id":1,"filename":"a.txt"},{"id":2,"filename":"b.txt"}]`,
			rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/files/2", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"id":2,"filename":"b.txt","content":"Cats sleep."}`,
			rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/files/99", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeErr(t, rec)
		assert.Equal(t, "not_found", body.Error.Code)
		assert.Equal(t, "Document 99 not found", body.Error.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		for _, id := range []string{"abc", "1.5"} {
			rec := env.do(httptest.NewRequest(http.MethodGet, "/files/"+id, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
			assert.Equal(t, "bad_request", decodeErr(t, rec).Error.Code)
		}
	})

	t.Run("non-positive id", func(t *testing.T) {
		for _, id := range []string{"0", "-3"} {
			rec := env.do(httptest.NewRequest(http.MethodGet, "/files/"+id, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code, id)
			assert.Equal(t, "Document "+id+" not found", decodeErr(t, rec).Error.Message)
		}
	})
}

func TestUpload(t *testing.T) {
	tests := []struct {
		msg, original, provided string
		data                    []byte
		status                  int
		filename                string
	}{
		{"plain", "notes.txt", "", []byte("hello"), http.StatusCreated, "notes.txt"},
		{"extension added", "notes", "", []byte("hello"), http.StatusCreated, "notes.txt"},
		{"provided name", "x.bin", "report.TXT", []byte("hello"), http.StatusCreated, "report.TXT"},
		{"provided without txt", "x.txt", "report.md", []byte("hello"), http.StatusBadRequest, ""},
		{"not utf8", "x.txt", "", []byte{0xff, 0xfe, 0x00}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			env := newEnv(t)

			rec := env.do(uploadReq(t, tt.original, tt.provided, tt.data))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusCreated {
				assert.Equal(t, "bad_request", decodeErr(t, rec).Error.Code)
				return
			}

			var res store.DocumentInfo
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, int64(3), res.ID)
			assert.Equal(t, tt.filename, res.Filename)
		})
	}
}

func TestUploadConflict(t *testing.T) {
	env := newEnv(t)
	env.docs.insertErr = iodocs.IDConflictError(3, "a.txt", errors.New("duplicate key"))

	rec := env.do(uploadReq(t, "a.txt", "", []byte("text")))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeErr(t, rec).Error.Code)
}

func TestUploadWithoutFile(t *testing.T) {
	env := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFile(t *testing.T) {
	env := newEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/files/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"Document 1 (a.txt) deleted (analysis removed via cascade if present)."}`,
		rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/files/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadText(t *testing.T) {
	env := newEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/download/1.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="a.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Alice went to Paris.", rec.Body.String())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, "/download/1.txt", nil)
	req.Header.Set("If-None-Match", etag)
	rec = env.do(req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/download/2.txt", nil))
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/download/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/download/7.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisFlow(t *testing.T) {
	env := newEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/analyze/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var transient nlp.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transient))
	assert.Equal(t, "Alice", transient.Tokens[0])
	assert.Empty(t, env.analyses.data, "transient analysis is not stored")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/analysis/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/analyze-and-store/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stored successfully")
	require.Contains(t, env.analyses.data, int64(1))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/analysis/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stored nlp.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, transient.Tokens, stored.Tokens)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/download-analysis/1.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="analysis_1.json"`,
		rec.Header().Get("Content-Disposition"))
	var file map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))
	assert.Equal(t, float64(1), file["document_id"])
	assert.Contains(t, file, "word_vectors")
	assert.Contains(t, rec.Body.String(), "\n  \"tokens\"")

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/analysis/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"Analysis for document 1 deleted successfully."}`,
		rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/analysis/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeMissingDocument(t *testing.T) {
	env := newEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/analyze-and-store/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.analyses.data)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	down := errors.New("connection refused")
	r := ioweb.NewRouter(ioweb.Deps{Ping: func(context.Context) error { return down }})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	env := newEnv(t)
	rec = env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware(t *testing.T) {
	env := newEnv(t)

	t.Run("request id", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/files", nil))
		assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		req.Header.Set("X-Request-ID", "abc")
		rec = env.do(req)
		assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := env.do(req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("metrics", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "gndocs_http_requests_total")
	})
}
