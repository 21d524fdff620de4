package http

import (
	"net/http"

	"nq-browser/internal/handler/http/respond"
)

// InputLimits bounds the size of request inputs.
type InputLimits struct {
	MaxPathBytes  int
	MaxQueryBytes int
	MaxBodyBytes  int64
}

// DefaultInputLimits are the limits used when a field of InputLimits is zero.
var DefaultInputLimits = InputLimits{
	MaxPathBytes:  2048,
	MaxQueryBytes: 2048,
	MaxBodyBytes:  1 << 20,
}

func (l InputLimits) withDefaults() InputLimits {
	if l.MaxPathBytes <= 0 {
		l.MaxPathBytes = DefaultInputLimits.MaxPathBytes
	}
	if l.MaxQueryBytes <= 0 {
		l.MaxQueryBytes = DefaultInputLimits.MaxQueryBytes
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = DefaultInputLimits.MaxBodyBytes
	}
	return l
}

// InputValidation returns middleware that rejects oversized paths and query
// strings with 414 and caps the request body.
func InputValidation(limits InputLimits) func(http.Handler) http.Handler {
	limits = limits.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > limits.MaxPathBytes {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}
			if len(r.URL.RawQuery) > limits.MaxQueryBytes {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "query string too long"})
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBodyBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
