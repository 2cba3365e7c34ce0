package domain

import (
	"context"
	"time"
)

// Store groups the repositories that share one unit of work
type Store interface {
	Items() ItemRepository
	Orders() OrderRepository
	Transactions() TransactionRepository
	Alerts() AlertRepository
}

// UnitOfWork runs fn atomically: every write made through store is committed
// when fn returns nil and discarded when it returns an error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error
	// View runs fn against committed state without opening a transaction.
	// fn must not write.
	View(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.T
}

// DateOf truncates t to midnight of its calendar day, keeping its location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the calendar date of the clock's current time
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}
