package normalize

import (
	"context"

	"nq-browser/internal/domain/entity"
	"nq-browser/internal/pkg/htmltable"
)

type structural struct {
	repairer *htmltable.Repairer
}

// NewStructural returns the strategy that repairs table markup in the answer
// fields. maxFieldBytes caps the size of a field it will parse; zero means no cap.
func NewStructural(maxFieldBytes int) Normalizer {
	return structural{repairer: &htmltable.Repairer{MaxBytes: maxFieldBytes}}
}

func (structural) Name() string { return Structural }

func (s structural) Normalize(ctx context.Context, rec entity.Record) entity.Record {
	rec.LongAnswers = apply(ctx, Structural, FieldLongAnswers, rec.LongAnswers, s.repairer.Repair)
	rec.ShortAnswers = apply(ctx, Structural, FieldShortAnswers, rec.ShortAnswers, s.repairer.Repair)
	return rec
}
