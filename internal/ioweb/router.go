// Package ioweb exposes documents and analyses over HTTP with gin.
// Handlers are thin: validation and status codes live here, storage
// and analysis are delegated to store and nlp implementations.
package ioweb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/gnames/gndocs/pkg/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxUploadMemory limits the part of a multipart upload kept in memory.
const maxUploadMemory = 32 << 20

// Deps are the collaborators of HTTP handlers.
type Deps struct {
	Docs     store.DocumentStore
	Analyses store.AnalysisStore
	Analyzer nlp.Analyzer

	// Ping checks that the database answers. Used by /healthz.
	Ping func(ctx context.Context) error
}

// NewRouter creates gin engine with all routes and middleware.
func NewRouter(d Deps) *gin.Engine {
	h := &handler{Deps: d}

	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog())
	r.Use(httpMetrics())
	r.Use(corsAll())

	r.GET("/", h.index)
	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/files", h.listFiles)
	r.GET("/files/:id", h.getFile)
	r.DELETE("/files/:id", h.deleteFile)
	r.POST("/upload", h.upload)
	r.GET("/download/:file", h.downloadText)

	r.GET("/analyze/:id", h.analyze)
	r.POST("/analyze-and-store/:id", h.analyzeAndStore)
	r.GET("/analysis/:id", h.getAnalysis)
	r.DELETE("/analysis/:id", h.deleteAnalysis)
	r.GET("/download-analysis/:file", h.downloadAnalysis)

	return r
}

// NewServer wraps handler into http.Server listening on port.
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
