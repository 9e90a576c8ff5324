package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Bill operations

func (s *Storage) SaveBill(ctx context.Context, bill *model.Bill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update. Bills persist without TTL.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, billKey(bill.ID), data, 0)
	pipe.ZAdd(ctx, billIndexKey(), redis.Z{
		Score:  float64(bill.CreatedAt.UnixNano()),
		Member: string(bill.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBill(ctx context.Context, id model.BillID) (*model.Bill, error) {
	data, err := s.client.Get(ctx, billKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBillNotFound
		}
		return nil, err
	}

	var bill model.Bill
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *Storage) DeleteBill(ctx context.Context, id model.BillID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, billKey(id))
	pipe.ZRem(ctx, billIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, int, error) {
	total, err := s.client.ZCard(ctx, billIndexKey()).Result()
	if err != nil {
		return nil, 0, err
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}

	// Newest first
	ids, err := s.client.ZRevRange(ctx, billIndexKey(), int64(offset), stop).Result()
	if err != nil {
		return nil, 0, err
	}

	bills := make([]*model.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, model.BillID(id))
		if err != nil {
			if errors.Is(err, model.ErrBillNotFound) {
				// Index entry outlived its record; skip it
				continue
			}
			return nil, 0, err
		}
		bills = append(bills, bill)
	}

	return bills, int(total), nil
}
