package ioweb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gndocs/internal/iodocs"
	gndocs "github.com/gnames/gndocs/pkg"
	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/gnames/gndocs/pkg/store"
	"github.com/gnames/gnuuid"
)

type handler struct {
	Deps
}

type indexResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// analysisFile is the body of a downloaded analysis.
type analysisFile struct {
	DocumentID int64 `json:"document_id"`
	*nlp.Result
}

func (h *handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, indexResponse{
		Service: "gndocs",
		Version: gndocs.Version,
		Endpoints: map[string]string{
			"GET /files":                           "List documents (id, filename)",
			"GET /files/{doc_id}":                  "View document content (JSON)",
			"POST /upload":                         "Upload a UTF-8 .txt file (form field 'file', optional 'filename')",
			"DELETE /files/{doc_id}":               "Delete document (and its analysis via cascade)",
			"GET /download/{doc_id}.txt":           "Download raw .txt file for document",
			"GET /analyze/{doc_id}":                "Run transient analysis and return results (not stored)",
			"POST /analyze-and-store/{doc_id}":     "Run analysis and store results in DB",
			"GET /analysis/{doc_id}":               "Retrieve stored analysis (JSON)",
			"GET /download-analysis/{doc_id}.json": "Download stored analysis as .json file",
			"DELETE /analysis/{doc_id}":            "Delete stored analysis for document",
		},
	})
}

func (h *handler) health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) listFiles(c *gin.Context) {
	docs, err := h.Docs.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []store.DocumentInfo{}
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handler) getFile(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	doc, err := h.Docs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, MissingFileError(err))
		return
	}

	provided := c.PostForm("filename")
	name, ok := store.UploadName(fh.Filename, provided)
	if !ok {
		respondError(c, iodocs.FilenameError(provided))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, ReadUploadError(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, ReadUploadError(err))
		return
	}

	res, err := h.Docs.Insert(c.Request.Context(), name, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) deleteFile(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.Docs.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf(
		"Document %d (%s) deleted (analysis removed via cascade if present).",
		res.ID, res.Filename,
	)
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (h *handler) downloadText(c *gin.Context) {
	param, found := strings.CutSuffix(c.Param("file"), ".txt")
	if !found {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	id, ok := docID(c, param)
	if !ok {
		return
	}
	doc, err := h.Docs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	etag := contentTag(doc.Content)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Content-Disposition", attachment(doc.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Content))
}

func (h *handler) analyze(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.analyzeDoc(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) analyzeAndStore(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.analyzeDoc(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err = h.Analyses.Store(c.Request.Context(), id, res); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{
		Message: "Full NLP analysis (with simplified vectors) stored successfully",
	})
}

func (h *handler) analyzeDoc(c *gin.Context, id int64) (*nlp.Result, error) {
	ctx := c.Request.Context()
	doc, err := h.Docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := h.Analyzer.Analyze(ctx, doc.Content)
	if err != nil {
		return nil, AnalyzerError(id, err)
	}
	return res, nil
}

func (h *handler) getAnalysis(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.Analyses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) downloadAnalysis(c *gin.Context) {
	param, found := strings.CutSuffix(c.Param("file"), ".json")
	if !found {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	id, ok := docID(c, param)
	if !ok {
		return
	}
	res, err := h.Analyses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err = enc.Encode(analysisFile{DocumentID: id, Result: res}); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(fmt.Sprintf("analysis_%d.json", id)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (h *handler) deleteAnalysis(c *gin.Context) {
	id, ok := docID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.Analyses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Analysis for document %d deleted successfully.", id),
	})
}

// docID parses a document id, writing 400 response when it is not
// an integer. Zero and negative ids are looked up as usual and end in 404.
func docID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		respondError(c, BadIDError(param))
		return 0, false
	}
	return id, true
}

// contentTag is a strong ETag derived from UUID v5 of the content.
func contentTag(content string) string {
	return strconv.Quote(gnuuid.New(content).String())
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
