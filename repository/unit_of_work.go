package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/events"
	"bolao/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable abstracts over the connection pool and a transaction so every
// repository can run standalone or inside a unit of work
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	transactionalBus  *events.TransactionalBus
	contestRepo       service.ContestRepository
	participationRepo service.ParticipationRepository
	paymentRepo       service.PaymentRepository
	adminConfigRepo   service.AdminConfigRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.contestRepo = newContestRepositoryWithTx(tx)
	u.participationRepo = newParticipationRepositoryWithTx(tx)
	u.paymentRepo = newPaymentRepositoryWithTx(tx)
	u.adminConfigRepo = newAdminConfigRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// ContestRepository returns the contest repository for this unit of work
func (u *unitOfWork) ContestRepository() service.ContestRepository {
	if u.contestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.contestRepo
}

// ParticipationRepository returns the participation repository for this unit of work
func (u *unitOfWork) ParticipationRepository() service.ParticipationRepository {
	if u.participationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.participationRepo
}

// PaymentRepository returns the payment repository for this unit of work
func (u *unitOfWork) PaymentRepository() service.PaymentRepository {
	if u.paymentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentRepo
}

// AdminConfigRepository returns the admin config repository for this unit of work
func (u *unitOfWork) AdminConfigRepository() service.AdminConfigRepository {
	if u.adminConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.adminConfigRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
