package api

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wbsview/internal/analysis"
	fileutil "wbsview/internal/file"
)

type uploadResponse struct {
	Success     bool   `json:"success"`
	ResultID    string `json:"result_id"`
	RedirectURL string `json:"redirect_url"`
}

// Options configure the upload pipeline.
type Options struct {
	UploadDir         string
	MaxUploadSize     int64
	AllowedExtensions []string
}

type API struct {
	manager  *analysis.Manager
	analyzer analysis.Analyzer
	options  Options
	allowed  map[string]struct{}
}

func NewAPI(manager *analysis.Manager, analyzer analysis.Analyzer, opts Options) *API {
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 16 * 1024 * 1024
	}
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = []string{".doc", ".docx", ".pdf"}
	}
	allowed := make(map[string]struct{}, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &API{manager: manager, analyzer: analyzer, options: opts, allowed: allowed}
}

// RegisterRoutes registers API routes on the provided gin engine.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.POST("/upload", a.Upload)
	router.GET("/api/results/:id", a.GetResult)
	router.GET("/health", a.Health)
}

// Upload accepts a document as multipart form data, forwards it to the
// analyzer and stores the produced record. The response tells the client
// where to find the results.
func (a *API) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	record, status, err := a.ProcessUpload(c.Request.Context(), fileHeader)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, uploadResponse{
		Success:     true,
		ResultID:    record.ID,
		RedirectURL: "/results/" + record.ID,
	})
}

// ProcessUpload validates the upload, saves it, runs the analyzer over it
// and stores the record. The saved file is removed afterwards in every case;
// only the analysis record is kept. Also used by the HTML form handler. The
// returned status matches the error: 400 for validation, 413 for size, 500
// otherwise.
func (a *API) ProcessUpload(ctx context.Context, fileHeader *multipart.FileHeader) (*analysis.Record, int, error) {
	requestID := shortRequestID()
	if fileHeader.Filename == "" {
		log.Warn().Str("request_id", requestID).Msg("no file selected")
		return nil, http.StatusBadRequest, errors.New("No file selected")
	}
	if _, ok := a.allowed[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		log.Warn().Str("request_id", requestID).Str("filename", fileHeader.Filename).Msg("invalid file type")
		return nil, http.StatusBadRequest, errors.New("Invalid file type. Please upload a .doc, .docx or .pdf file")
	}
	if fileHeader.Size > a.options.MaxUploadSize {
		log.Warn().Str("request_id", requestID).Int64("size", fileHeader.Size).Msg("file too large")
		return nil, http.StatusRequestEntityTooLarge, errors.New("File is too large. Maximum size is 16MB")
	}

	filename := sanitizeFilename(fileHeader.Filename)
	savedName := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString(), filename)
	savedPath := filepath.Join(a.options.UploadDir, savedName)

	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Str("request_id", requestID).Err(err).Msg("open uploaded file failed")
		return nil, http.StatusInternalServerError, fmt.Errorf("open uploaded file: %w", err)
	}
	err = fileutil.CopyAtomic(savedPath, src)
	_ = src.Close()
	if err != nil {
		log.Error().Str("request_id", requestID).Err(err).Msg("save uploaded file failed")
		return nil, http.StatusInternalServerError, fmt.Errorf("save uploaded file: %w", err)
	}
	log.Info().Str("request_id", requestID).Str("path", savedPath).Int64("size", fileHeader.Size).Msg("file saved")
	defer a.cleanupUpload(requestID, savedPath)

	document, err := os.Open(savedPath) //nolint:gosec // path assembled from app-owned dir + sanitized name
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("reopen uploaded file: %w", err)
	}
	defer func() { _ = document.Close() }()

	log.Info().Str("request_id", requestID).Str("filename", filename).Msg("starting analysis")
	result, usage, err := a.analyzer.Analyze(ctx, filename, document)
	if err != nil {
		log.Error().Str("request_id", requestID).Err(err).Msg("analysis failed")
		return nil, http.StatusInternalServerError, err
	}

	record := a.manager.AddResult(filename, result, usage)
	log.Info().Str("request_id", requestID).Str("result_id", record.ID).Msg("analysis result stored")
	return record, http.StatusOK, nil
}

// GetResult returns a stored analysis record as JSON.
func (a *API) GetResult(c *gin.Context) {
	id := c.Param("id")
	if record, ok := a.manager.GetRecord(id); ok {
		c.JSON(http.StatusOK, record)
		return
	}
	log.Warn().Str("result_id", id).Msg("result not found")
	c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
}

// Health is the liveness endpoint.
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Record looks up a stored record. Used by the HTML pages.
func (a *API) Record(id string) (*analysis.Record, bool) {
	return a.manager.GetRecord(id)
}

func (a *API) cleanupUpload(requestID, path string) {
	if err := os.Remove(path); err != nil {
		log.Warn().Str("request_id", requestID).Err(err).Msg("cleanup uploaded file failed")
		return
	}
	log.Info().Str("request_id", requestID).Msg("cleaned up uploaded file")
}

// sanitizeFilename keeps only the base name and flattens path separators, so
// a crafted name cannot escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}

// shortRequestID is the correlation ID used in upload logs.
func shortRequestID() string {
	return uuid.NewString()[:8]
}
