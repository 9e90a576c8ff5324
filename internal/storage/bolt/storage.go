// Package bolt provides a bbolt-backed storage implementation. It exists
// for single-node deployments that want bills to survive a restart
// without running Redis.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/storage"
)

var (
	sessionsBucket = []byte("sessions")
	billsBucket    = []byte("bills")
)

// Storage is a bbolt-backed implementation of the storage interface
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) a bbolt database at the given path
func New(path string) (*Storage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(sessionsBucket); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(billsBucket); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshaling session: %w", err)
		}
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), data)
	})
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var session *model.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return model.ErrSessionNotFound
		}
		session = &model.Session{}
		return json.Unmarshal(data, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

// Bill operations

func (s *Storage) SaveBill(ctx context.Context, bill *model.Bill) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(bill)
		if err != nil {
			return fmt.Errorf("marshaling bill: %w", err)
		}
		return tx.Bucket(billsBucket).Put([]byte(bill.ID), data)
	})
}

func (s *Storage) GetBill(ctx context.Context, id model.BillID) (*model.Bill, error) {
	var bill *model.Bill
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(billsBucket).Get([]byte(id))
		if data == nil {
			return model.ErrBillNotFound
		}
		bill = &model.Bill{}
		return json.Unmarshal(data, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Storage) DeleteBill(ctx context.Context, id model.BillID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(billsBucket).Delete([]byte(id))
	})
}

func (s *Storage) ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, int, error) {
	var all []*model.Bill
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(billsBucket).ForEach(func(_, data []byte) error {
			var bill model.Bill
			if err := json.Unmarshal(data, &bill); err != nil {
				return err
			}
			all = append(all, &bill)
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
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
