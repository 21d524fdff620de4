package dataset

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/domain/entity"
	"nq-browser/internal/handler/http/respond"
	"nq-browser/internal/observability/logging"
)

// ListHandler serves GET /datasets: the available datasets, the default one
// and the pagination strip of the default dataset around ?page.
type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, loggerOrDefault(h.Logger))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, logger, err)
		return
	}
	if err := params.Validate(h.PaginationCfg); err != nil {
		respond.SafeError(w, logger, err)
		return
	}

	listing := h.Svc.Datasets()
	body := ListingDTO{
		Datasets:   listing.IDs,
		Default:    listing.Default,
		Pagination: []int{},
	}
	if body.Datasets == nil {
		body.Datasets = []string{}
	}

	if listing.Default != "" {
		total, err := h.Svc.Count(ctx, listing.Default)
		if err != nil {
			respond.SafeError(w, logger, err)
			return
		}
		body.Pagination = pagination.PageWindow(params.Page,
			pagination.CalculateTotalPages(total, params.PageSize),
			h.PaginationCfg.WindowWidth)
	}

	respond.JSON(w, http.StatusOK, body)
}

// CountHandler serves GET /datasets/{id}: the record count of one dataset.
type CountHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h CountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	logger := logging.WithDataset(logging.WithRequestID(ctx, loggerOrDefault(h.Logger)), id)

	pageSize := h.PaginationCfg.DefaultPageSize
	if s := r.URL.Query().Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.SafeError(w, logger, &entity.ValidationError{Field: "page_size", Message: "must be an integer", DatasetID: id, Op: "count"})
			return
		}
		pageSize = n
	}
	params := pagination.Params{DatasetID: id, Page: 1, PageSize: pageSize}
	if err := params.Validate(h.PaginationCfg); err != nil {
		respond.SafeError(w, logger, err)
		return
	}

	total, err := h.Svc.Count(ctx, id)
	if err != nil {
		respond.SafeError(w, logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, CountDTO{
		DatasetID:    id,
		TotalRecords: total,
		TotalPages:   pagination.CalculateTotalPages(total, pageSize),
		PageSize:     pageSize,
	})
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
