package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions are stored as whole records and replaced on write, so readers
// holding a pointer never see a record mid-mutation.
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session
	bills    map[model.BillID]*model.Bill
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
		bills:    make(map[model.BillID]*model.Bill),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Bill operations

func (s *Storage) SaveBill(ctx context.Context, bill *model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[bill.ID] = bill
	return nil
}

func (s *Storage) GetBill(ctx context.Context, id model.BillID) (*model.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[id]
	if !ok {
		return nil, model.ErrBillNotFound
	}
	return bill, nil
}

func (s *Storage) DeleteBill(ctx context.Context, id model.BillID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bills, id)
	return nil
}

func (s *Storage) ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.Bill, 0, len(s.bills))
	for _, bill := range s.bills {
		all = append(all, bill)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*model.Bill{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
