package dataset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/domain/entity"
	"nq-browser/internal/handler/http/requestid"
	"nq-browser/internal/handler/http/respond"
	"nq-browser/internal/observability/logging"
	datasetUC "nq-browser/internal/usecase/dataset"
	"nq-browser/internal/usecase/normalize"
)

// Service is the part of the dataset use case the handlers need.
type Service interface {
	ResolvePage(ctx context.Context, id string, page, pageSize int) (*entity.Page, error)
	Resolve(ctx context.Context, id string) (string, error)
	Count(ctx context.Context, id string) (int64, error)
	Datasets() datasetUC.Listing
}

// DataHandler serves GET /data: one normalized page of a dataset.
type DataHandler struct {
	Svc           Service
	Normalizer    normalize.Normalizer
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.logger())

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		h.fail(w, logger, reqID, params, err)
		return
	}
	pagination.LogRequest(logger, reqID, params)

	page, err := h.Svc.ResolvePage(ctx, params.DatasetID, params.Page, params.PageSize)
	if err != nil {
		h.fail(w, logger, reqID, params, err)
		return
	}

	if h.Normalizer != nil {
		page = normalize.Page(logging.WithLogger(ctx, logging.WithDataset(logger, page.DatasetID)), h.Normalizer, page)
	}

	resp := pagination.NewResponse(toDTOs(page.Records), pagination.NewMetadata(page.TotalRecords, page.Page, page.PageSize))

	duration := time.Since(start)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	params.DatasetID = page.DatasetID
	pagination.LogResponse(logger, reqID, params, len(resp.Data), duration, http.StatusOK)

	respond.JSON(w, http.StatusOK, resp)
}

func (h DataHandler) fail(w http.ResponseWriter, logger *slog.Logger, reqID string, params pagination.Params, err error) {
	code := respond.StatusFor(err)
	pagination.RecordRequest(code, params.Page)
	pagination.RecordError(errorType(err))
	if code < http.StatusInternalServerError {
		logger.Warn("Invalid page request",
			"request_id", reqID,
			"dataset_id", params.DatasetID,
			"page", params.Page,
			"page_size", params.PageSize,
			"error", err.Error())
	}
	respond.SafeError(w, logger, err)
}

func (h DataHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func errorType(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return "validation"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrSourceRead):
		return "source_read"
	default:
		return "internal"
	}
}
