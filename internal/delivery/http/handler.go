package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ppclens/backend/internal/domain"
	"github.com/ppclens/backend/internal/infrastructure/report"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalysisUsecase is the part of the analysis service the handlers call
type AnalysisUsecase interface {
	Analyze(ctx context.Context, report *domain.RawReport) (*domain.AnalysisResult, error)
	GetResult(ctx context.Context, id string) (*domain.AnalysisResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis       AnalysisUsecase
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis AnalysisUsecase, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analysis:       analysis,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ppclens-backend",
		"version": "1.0.0",
	})
}

type tableInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

type uploadResponse struct {
	ID      string         `json:"id"`
	Source  string         `json:"source"`
	Summary domain.Summary `json:"summary"`
	Tables  []tableInfo    `json:"tables"`
}

// UploadReport accepts a multipart "file" field holding a CSV or XLSX search
// term report and runs the analysis pipeline over it
func (h *Handler) UploadReport(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			h.respondTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondTooLarge(c)
			return
		}
		h.respondError(c, fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrInvalidRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	defer file.Close()

	raw, err := report.Read(fileHeader.Filename, file)
	if err != nil {
		if !errors.Is(err, domain.ErrUnsupportedFormat) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		h.respondError(c, err)
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := uploadResponse{
		ID:      result.ID,
		Source:  result.Source,
		Summary: result.Summary,
	}
	for _, t := range result.Tables() {
		resp.Tables = append(resp.Tables, tableInfo{Name: t.Name, Rows: len(t.Rows)})
	}
	c.JSON(http.StatusCreated, resp)
}

// GetReport returns a stored analysis result
func (h *Handler) GetReport(c *gin.Context) {
	result, err := h.analysis.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTable returns one result table as JSON, or as CSV with ?format=csv
func (h *Handler) GetTable(c *gin.Context) {
	result, err := h.analysis.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	table, err := result.Table(c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	switch format := strings.ToLower(c.DefaultQuery("format", "json")); format {
	case "json":
		c.JSON(http.StatusOK, table)
	case "csv":
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, table); err != nil {
			h.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", attachment(table.Name+".csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		h.respondError(c, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidRequest, format))
	}
}

// GetWorkbook returns every result table as one XLSX workbook
func (h *Handler) GetWorkbook(c *gin.Context) {
	result, err := h.analysis.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, result.Tables()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("ppclens-"+result.ID+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetPatterns returns the ADD_TO_PATTERNS tokens as a config YAML snippet.
// ?category= picks the pattern category they go under.
func (h *Handler) GetPatterns(c *gin.Context) {
	result, err := h.analysis.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePatternsYAML(&buf, c.Query("category"), result.AddToPatternTokens()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", buf.Bytes())
}

func (h *Handler) respondTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("report exceeds the %d byte upload limit", h.maxUploadBytes),
	})
}

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReportNotFound), errors.Is(err, domain.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
