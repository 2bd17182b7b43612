package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict a compare-and-swap update matched no row
	ErrVersionConflict = errors.New("version conflict")
)

// Repositories desk repository set
type Repositories struct {
	Complaint    *ComplaintRepository
	Quote        *QuoteRepository
	User         *UserRepository
	Employee     *EmployeeRepository
	Vendor       *VendorRepository
	Notification *NotificationRepository
	Tx           *Transactor
}

// NewRepositories builds every repository over one connection pool.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Complaint:    NewComplaintRepository(db),
		Quote:        NewQuoteRepository(db),
		User:         NewUserRepository(db),
		Employee:     NewEmployeeRepository(db),
		Vendor:       NewVendorRepository(db),
		Notification: NewNotificationRepository(db),
		Tx:           NewTransactor(db),
	}
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the pool.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Transactor runs a callback inside a database transaction. Repositories
// called with the callback's context join that transaction; a nested
// WithTx becomes a savepoint.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
