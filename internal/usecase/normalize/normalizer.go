// Package normalize cleans record fields before they are returned to clients.
//
// Two deployments of the browser disagree on what normalization means: one
// repairs HTML table markup in the answer fields, the other only capitalizes
// the question and short answers. Both are available as strategies and the
// deployment picks one by name.
package normalize

import (
	"context"
	"fmt"
	"strings"

	"nq-browser/internal/domain/entity"
	"nq-browser/internal/observability/logging"
	"nq-browser/internal/observability/metrics"
)

// Strategy names accepted by New.
const (
	Structural = "structural"
	Casing     = "casing"
	None       = "none"
)

// Field names used in errors, logs and metrics.
const (
	FieldQuestion     = "question"
	FieldLongAnswers  = "long_answers"
	FieldShortAnswers = "short_answers"
)

// Normalizer rewrites the fields of a record. It never fails: a field that
// cannot be normalized keeps its original value.
type Normalizer interface {
	Name() string
	Normalize(ctx context.Context, rec entity.Record) entity.Record
}

// Options configures the strategies built by New.
type Options struct {
	// MaxFieldBytes caps the size of a field the structural strategy will
	// parse. Zero means no cap.
	MaxFieldBytes int
}

// Strategies lists the accepted strategy names.
func Strategies() []string {
	return []string{Structural, Casing, None}
}

// New returns the strategy called name. An empty name selects Structural.
func New(name string, opts Options) (Normalizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Structural:
		return NewStructural(opts.MaxFieldBytes), nil
	case Casing:
		return casing{}, nil
	case None:
		return none{}, nil
	default:
		return nil, &entity.ValidationError{
			Field:   "normalizer.strategy",
			Message: fmt.Sprintf("unknown strategy %q, want one of %s", name, strings.Join(Strategies(), ", ")),
		}
	}
}

// Page returns a copy of p with every record normalized. p is not modified.
func Page(ctx context.Context, n Normalizer, p *entity.Page) *entity.Page {
	out := *p
	out.Records = make([]entity.Record, len(p.Records))
	for i, rec := range p.Records {
		out.Records[i] = n.Normalize(ctx, rec)
	}
	return &out
}

// apply runs fn on value and returns the original value if fn fails.
func apply(ctx context.Context, strategy, field, value string, fn func(string) (string, error)) string {
	out, err := fn(value)
	if err == nil {
		return out
	}
	nerr := &entity.NormalizationError{Field: field, Err: err}
	metrics.RecordNormalizationFallback(strategy, field)
	logging.FromContext(ctx).Warn("normalization failed, keeping original value",
		"strategy", strategy,
		"field", field,
		"bytes", len(value),
		"error", nerr)
	return value
}

type none struct{}

func (none) Name() string { return None }

func (none) Normalize(_ context.Context, rec entity.Record) entity.Record { return rec }
