package dataset

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/usecase/normalize"
)

// Register mounts the dataset routes on r.
func Register(r chi.Router, svc Service, norm normalize.Normalizer, paginationCfg pagination.Config, logger *slog.Logger) {
	r.Method("GET", "/data", DataHandler{
		Svc:           svc,
		Normalizer:    norm,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	r.Method("GET", "/datasets", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	r.Method("GET", "/datasets/{id}", CountHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
}
