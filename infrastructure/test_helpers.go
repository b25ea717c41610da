package infrastructure

import (
	"poolpay/application"
	"poolpay/database"
	"poolpay/domain/interfaces"
	"poolpay/repository"
)

// TestUnitOfWorkFactory is a test factory that creates new unit of work instances.
// This is placed in the infrastructure package to avoid circular dependencies
// between the application and repository packages.
type TestUnitOfWorkFactory struct {
	db                     *database.DB
	transactionalPublisher interfaces.TransactionalEventPublisher
}

// NewTestUnitOfWorkFactory creates a new test unit of work factory
func NewTestUnitOfWorkFactory(db *database.DB, transactionalPublisher interfaces.TransactionalEventPublisher) *TestUnitOfWorkFactory {
	return &TestUnitOfWorkFactory{
		db:                     db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Create creates a fresh UnitOfWork for each call to avoid transaction state issues
func (f *TestUnitOfWorkFactory) Create() application.UnitOfWork {
	return repository.CreateTestUnitOfWork(f.db, f.transactionalPublisher)
}
