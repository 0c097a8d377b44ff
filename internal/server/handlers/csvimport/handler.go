// Package csvimport serves the bulk import endpoints: CSV preview, job
// submission and report lookup.
package csvimport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lorekeep/lorekeep/internal/server/csvsvc"
	"github.com/lorekeep/lorekeep/internal/server/handlers/api"
	"github.com/lorekeep/lorekeep/internal/server/jobs"
	"github.com/lorekeep/lorekeep/internal/server/pages"
	"github.com/lorekeep/lorekeep/internal/server/reports"
)

type Handler struct {
	csv     *csvsvc.Service
	engine  *jobs.Engine
	pages   *pages.Store
	reports *reports.Store

	// artificial per-record delay so local runs have observable progress
	jobDelay time.Duration

	submitMu sync.Mutex
}

func New(csv *csvsvc.Service, engine *jobs.Engine, pageStore *pages.Store, reportStore *reports.Store, jobDelay time.Duration) *Handler {
	return &Handler{
		csv:      csv,
		engine:   engine,
		pages:    pageStore,
		reports:  reportStore,
		jobDelay: jobDelay,
	}
}

// Preview handles POST /api/v1/import/preview.
func (h *Handler) Preview(ctx *gin.Context) {
	var req PreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	preview, err := h.csv.ParsePreview(req.Content)
	if err != nil {
		api.AbortWithError(ctx, http.StatusUnprocessableEntity, api.CodeParseFailed, err)
		return
	}
	ctx.PureJSON(http.StatusOK, preview)
}

// Start handles POST /api/v1/import/start. Invalid records are excluded
// before the job is queued; only one import runs at a time.
func (h *Handler) Start(ctx *gin.Context) {
	var req StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	preview, err := h.csv.ParsePreview(req.Content)
	if err != nil {
		api.AbortWithError(ctx, http.StatusUnprocessableEntity, api.CodeParseFailed, err)
		return
	}

	valid := preview.ValidRecords()
	if len(valid) == 0 {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeImportStartFailed,
			errors.New("no valid records to import"))
		return
	}

	h.submitMu.Lock()
	defer h.submitMu.Unlock()

	if status, ok := h.engine.Queue(jobs.QueueImport); ok && status.IsActive {
		api.AbortWithError(ctx, http.StatusConflict, api.CodeImportRunning,
			errors.New("an import is already in progress"))
		return
	}

	reportID := uuid.NewString()
	h.reports.Start(reportID, req.FileName, len(valid))

	for _, record := range valid {
		h.engine.Enqueue(jobs.QueueImport, h.applyJob(reportID, record))
	}
	h.engine.Enqueue(jobs.QueueImport, func(context.Context) error {
		h.reports.Finish(reportID)
		return nil
	})

	ctx.PureJSON(http.StatusOK, StartResponse{
		Success:     true,
		RecordCount: len(valid),
		ReportID:    reportID,
		ReportURL:   reportURL(reportID),
	})
}

func (h *Handler) applyJob(reportID string, record csvsvc.Record) jobs.Job {
	return func(ctx context.Context) error {
		if h.jobDelay > 0 {
			select {
			case <-time.After(h.jobDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		h.pages.Add(record.Identifier)
		h.reports.RecordApplied(reportID, record.PageExists)
		h.engine.Enqueue(jobs.QueueIndex, indexJob(record.Identifier))
		return nil
	}
}

// indexJob stands in for the search reindex a page write triggers.
func indexJob(string) jobs.Job {
	return func(context.Context) error { return nil }
}

// GetReport handles GET /api/v1/import/reports/:id.
func (h *Handler) GetReport(ctx *gin.Context) {
	id := ctx.Param("id")
	report, ok := h.reports.Get(id)
	if !ok {
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeNotFound,
			fmt.Errorf("no report with id %q", id))
		return
	}
	ctx.PureJSON(http.StatusOK, report)
}

func reportURL(id string) string {
	return "/api/v1/import/reports/" + id
}
