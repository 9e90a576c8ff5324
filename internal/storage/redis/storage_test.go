package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/tabsplit/tabsplit/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) saveBill(id model.BillID, createdAt time.Time) {
	s.Require().NoError(s.storage.SaveBill(s.ctx, &model.Bill{
		ID:        id,
		CreatedAt: createdAt,
	}))
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:     "ABCD2345",
		Status: model.SessionStatusCalculated,
		Items: []model.BillItem{
			{ID: "i1", Name: "Pizza", Price: 10.00, ParticipantIDs: []string{"alice"}},
		},
		Participants: []model.Participant{
			{ID: "alice", Name: "Alice"},
		},
		Splits:      map[string]float64{"alice": 10.00},
		TotalAmount: 10.00,
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.Status, retrieved.Status)
	s.Equal(session.Splits, retrieved.Splits)
	s.Len(retrieved.Items, 1)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{ID: "ABCD2345"}))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "ABCD2345"))

	_, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionsExpire() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{ID: "ABCD2345"}))

	ttl := s.mini.TTL(sessionKey("ABCD2345"))
	s.Equal(time.Hour, ttl)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Bill tests

func (s *StorageSuite) TestSaveAndGetBill() {
	bill := &model.Bill{
		ID:          "bill-1",
		SessionID:   "ABCD2345",
		Splits:      map[string]float64{"alice": 10.00},
		TotalAmount: 10.00,
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SaveBill(s.ctx, bill))

	retrieved, err := s.storage.GetBill(s.ctx, "bill-1")
	s.Require().NoError(err)
	s.Equal(bill.ID, retrieved.ID)
	s.Equal(bill.Splits, retrieved.Splits)
}

func (s *StorageSuite) TestBillsDoNotExpire() {
	s.saveBill("bill-1", time.Now())

	s.Equal(time.Duration(0), s.mini.TTL(billKey("bill-1")))
}

func (s *StorageSuite) TestGetBillNotFound() {
	_, err := s.storage.GetBill(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrBillNotFound)
}

func (s *StorageSuite) TestDeleteBillRemovesIndexEntry() {
	s.saveBill("bill-1", time.Now())

	s.Require().NoError(s.storage.DeleteBill(s.ctx, "bill-1"))

	_, err := s.storage.GetBill(s.ctx, "bill-1")
	s.ErrorIs(err, model.ErrBillNotFound)

	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)
	s.Equal(0, total)
	s.Empty(bills)
}

// ListBills tests

func (s *StorageSuite) TestListBillsNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.saveBill("bill-1", base)
	s.saveBill("bill-2", base.Add(time.Hour))
	s.saveBill("bill-3", base.Add(2*time.Hour))

	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Equal(3, total)
	s.Require().Len(bills, 3)
	s.Equal(model.BillID("bill-3"), bills[0].ID)
	s.Equal(model.BillID("bill-1"), bills[2].ID)
}

func (s *StorageSuite) TestListBillsOffsetAndLimit() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []model.BillID{"a", "b", "c", "d", "e"} {
		s.saveBill(id, base.Add(time.Duration(i)*time.Hour))
	}

	bills, total, err := s.storage.ListBills(s.ctx, 1, 2)
	s.Require().NoError(err)

	s.Equal(5, total)
	s.Require().Len(bills, 2)
	s.Equal(model.BillID("d"), bills[0].ID)
	s.Equal(model.BillID("c"), bills[1].ID)
}

func (s *StorageSuite) TestListBillsEmpty() {
	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Equal(0, total)
	s.Empty(bills)
}

func (s *StorageSuite) TestListBillsSkipsDanglingIndexEntries() {
	s.saveBill("bill-1", time.Now())

	// Remove the record but not the index entry
	s.Require().True(s.mini.Del(billKey("bill-1")))

	bills, _, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)
	s.Empty(bills)
}
