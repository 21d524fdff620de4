package normalize

import (
	"context"
	"errors"
	"unicode"
	"unicode/utf8"

	"nq-browser/internal/domain/entity"
)

var errInvalidUTF8 = errors.New("invalid UTF-8 at start of field")

// casing upper-cases the first character of the question and short answers.
// Table markup is left alone.
type casing struct{}

func (casing) Name() string { return Casing }

func (casing) Normalize(ctx context.Context, rec entity.Record) entity.Record {
	rec.Question = apply(ctx, Casing, FieldQuestion, rec.Question, capitalize)
	rec.ShortAnswers = apply(ctx, Casing, FieldShortAnswers, rec.ShortAnswers, capitalize)
	return rec
}

func capitalize(s string) (string, error) {
	if s == "" {
		return s, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return "", errInvalidUTF8
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s, nil
	}
	return string(upper) + s[size:], nil
}
