package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/report"
	"questionnaire-reader/internal/service"
)

const reportTitle = "Questionnaire Report"

// DatasetHandler puntua exports CSV completos.
type DatasetHandler struct {
	logger         *zap.Logger
	scoring        *service.ScoringService
	layout         dataset.Layout
	maxUploadBytes int64
}

func NewDatasetHandler(logger *zap.Logger, scoring *service.ScoringService, layout dataset.Layout, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		logger:         logger,
		scoring:        scoring,
		layout:         layout,
		maxUploadBytes: maxUploadBytes,
	}
}

// Score maneja POST /v1/datasets/score. ?format=csv devuelve el CSV puntuado.
func (h *DatasetHandler) Score(c *gin.Context) {
	res, ok := h.scoreUpload(c)
	if !ok {
		return
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		var buf bytes.Buffer
		if err := res.Table.WriteCSV(&buf); err != nil {
			h.logger.Error("write scored csv failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not write csv"})
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="scored-%s.csv"`, res.ID))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, res)
}

// Report maneja POST /v1/datasets/report: pagina HTML con graficos por columna.
func (h *DatasetHandler) Report(c *gin.Context) {
	res, ok := h.scoreUpload(c)
	if !ok {
		return
	}

	columns := c.QueryArray("column")
	if len(columns) == 0 {
		columns = res.Columns
	}
	sections, err := report.Describe(res.Table, columns, dataset.NAValue)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, reportTitle, sections); err != nil {
		h.logger.Error("render report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render report"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *DatasetHandler) scoreUpload(c *gin.Context) (*service.BatchResult, bool) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	body, closeFn, err := h.upload(c)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	defer closeFn()

	res, err := h.scoring.ScoreDataset(c.Request.Context(), body, h.layout)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return res, true
}

// upload devuelve el CSV del campo multipart "file" o, si no es multipart, el body.
func (h *DatasetHandler) upload(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return c.Request.Body, func() {}, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errBadUpload, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errBadUpload, err)
	}
	return f, func() { _ = f.Close() }, nil
}

var errBadUpload = errors.New("invalid upload")

func (h *DatasetHandler) writeError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	var parseErr *csv.ParseError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)})
	case errors.As(err, &parseErr), errors.Is(err, errBadUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, dataset.ErrColumnNotFound),
		errors.Is(err, dataset.ErrInvalidLayout):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("dataset request cancelled", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		h.logger.Error("dataset scoring failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not score dataset"})
	}
}
