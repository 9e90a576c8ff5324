package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tabsplit/tabsplit/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	storage, err := New(filepath.Join(s.T().TempDir(), "tabsplit.db"))
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
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
		Status: model.SessionStatusDraft,
		Items: []model.BillItem{
			{ID: "i1", Name: "Pizza", Price: 10.00, ParticipantIDs: []string{"alice"}},
		},
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Len(retrieved.Items, 1)
	s.Equal([]string{"alice"}, retrieved.Items[0].ParticipantIDs)
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

// Bill tests

func (s *StorageSuite) TestSaveAndGetBill() {
	bill := &model.Bill{
		ID:          "bill-1",
		SessionID:   "ABCD2345",
		Splits:      map[string]float64{"alice": 10.00},
		TotalAmount: 10.00,
	}

	s.Require().NoError(s.storage.SaveBill(s.ctx, bill))

	retrieved, err := s.storage.GetBill(s.ctx, "bill-1")
	s.Require().NoError(err)
	s.Equal(bill.Splits, retrieved.Splits)
}

func (s *StorageSuite) TestGetBillNotFound() {
	_, err := s.storage.GetBill(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrBillNotFound)
}

func (s *StorageSuite) TestDeleteBill() {
	s.saveBill("bill-1", time.Now())

	s.Require().NoError(s.storage.DeleteBill(s.ctx, "bill-1"))

	_, err := s.storage.GetBill(s.ctx, "bill-1")
	s.ErrorIs(err, model.ErrBillNotFound)
}

// ListBills tests

func (s *StorageSuite) TestListBillsNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.saveBill("bill-1", base)
	s.saveBill("bill-2", base.Add(time.Hour))

	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Equal(2, total)
	s.Require().Len(bills, 2)
	s.Equal(model.BillID("bill-2"), bills[0].ID)
	s.Equal(model.BillID("bill-1"), bills[1].ID)
}

func (s *StorageSuite) TestListBillsOffsetAndLimit() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []model.BillID{"a", "b", "c", "d"} {
		s.saveBill(id, base.Add(time.Duration(i)*time.Hour))
	}

	bills, total, err := s.storage.ListBills(s.ctx, 1, 2)
	s.Require().NoError(err)

	s.Equal(4, total)
	s.Require().Len(bills, 2)
	s.Equal(model.BillID("c"), bills[0].ID)
	s.Equal(model.BillID("b"), bills[1].ID)
}

// Persistence across reopen

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabsplit.db")
	ctx := context.Background()

	storage, err := New(path)
	require.NoError(t, err)

	require.NoError(t, storage.SaveBill(ctx, &model.Bill{ID: "bill-1", TotalAmount: 15.0}))
	require.NoError(t, storage.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	bill, err := reopened.GetBill(ctx, "bill-1")
	require.NoError(t, err)
	require.Equal(t, 15.0, bill.TotalAmount)
}
