package repository

import "context"

// Tx is the unit-of-work handle the settlement engine drives. Repositories
// accept it for operations that must share one database transaction; the
// engine commits or rolls back the whole unit.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
