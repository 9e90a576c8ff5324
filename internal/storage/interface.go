package storage

import (
	"context"

	"github.com/tabsplit/tabsplit/internal/model"
)

// Storage defines the interface for data persistence. Backends are
// interchangeable; the core never assumes durability.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Bill operations. Bills are immutable once saved.
	SaveBill(ctx context.Context, bill *model.Bill) error
	GetBill(ctx context.Context, id model.BillID) (*model.Bill, error)
	DeleteBill(ctx context.Context, id model.BillID) error

	// ListBills returns bills ordered newest-first, skipping offset
	// entries and returning at most limit, along with the total count.
	ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, int, error)
}
