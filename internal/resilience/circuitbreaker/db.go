package circuitbreaker

import (
	"context"
	"database/sql"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker wraps a dataset store connection with circuit breaker protection.
// It satisfies the Querier interface of the relational dataset sources.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// NewDBCircuitBreaker creates a breaker for the given backend kind.
func NewDBCircuitBreaker(db *sql.DB, kind string) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DatasetStoreConfig(kind))
}

// NewDBCircuitBreakerWithConfig creates a new database circuit breaker with custom configuration.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{
		cb: New(cfg),
		db: db,
	}
}

// QueryContext executes a query with circuit breaker protection.
// If the circuit is open, it returns gobreaker.ErrOpenState without hitting the database.
func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		return dcb.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// PingContext checks connectivity through the breaker.
func (dcb *DBCircuitBreaker) PingContext(ctx context.Context) error {
	_, err := dcb.cb.Execute(func() (interface{}, error) {
		return nil, dcb.db.PingContext(ctx)
	})
	return err
}

// State returns the current state of the circuit breaker.
func (dcb *DBCircuitBreaker) State() gobreaker.State {
	return dcb.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (dcb *DBCircuitBreaker) IsOpen() bool {
	return dcb.cb.IsOpen()
}

// Name returns the breaker name.
func (dcb *DBCircuitBreaker) Name() string {
	return dcb.cb.Name()
}

// DB returns the underlying database connection.
func (dcb *DBCircuitBreaker) DB() *sql.DB {
	return dcb.db
}
