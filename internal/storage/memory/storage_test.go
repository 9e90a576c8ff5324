package memory

import (
	"context"
	"testing"
	"time"

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
	s.storage = New()
	s.ctx = context.Background()
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
			{ID: "i1", Name: "Pizza", Price: 10.00},
		},
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Len(retrieved.Items, 1)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	session := &model.Session{ID: "ABCD2345"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "ABCD2345"))

	_, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSaveSessionReplacesExisting() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:     "ABCD2345",
		Status: model.SessionStatusDraft,
	}))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:     "ABCD2345",
		Status: model.SessionStatusCalculated,
	}))

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusCalculated, retrieved.Status)
}

// Bill tests

func (s *StorageSuite) TestSaveAndGetBill() {
	bill := &model.Bill{
		ID:          "bill-1",
		SessionID:   "ABCD2345",
		TotalAmount: 15.0,
		Splits:      map[string]float64{"alice": 10.0},
	}

	s.Require().NoError(s.storage.SaveBill(s.ctx, bill))

	retrieved, err := s.storage.GetBill(s.ctx, "bill-1")
	s.Require().NoError(err)
	s.Equal(bill.TotalAmount, retrieved.TotalAmount)
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
	s.saveBill("bill-3", base.Add(2*time.Hour))

	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Equal(3, total)
	s.Require().Len(bills, 3)
	s.Equal(model.BillID("bill-3"), bills[0].ID)
	s.Equal(model.BillID("bill-2"), bills[1].ID)
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

func (s *StorageSuite) TestListBillsOffsetPastEnd() {
	s.saveBill("bill-1", time.Now())

	bills, total, err := s.storage.ListBills(s.ctx, 5, 10)
	s.Require().NoError(err)

	s.Equal(1, total)
	s.Empty(bills)
}

func (s *StorageSuite) TestListBillsZeroLimitReturnsAll() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.saveBill("bill-1", base)
	s.saveBill("bill-2", base.Add(time.Hour))

	bills, total, err := s.storage.ListBills(s.ctx, 0, 0)
	s.Require().NoError(err)

	s.Equal(2, total)
	s.Len(bills, 2)
}

func (s *StorageSuite) TestListBillsEmpty() {
	bills, total, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Equal(0, total)
	s.Empty(bills)
}

func (s *StorageSuite) TestListBillsTieBreaksOnID() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.saveBill("bill-a", at)
	s.saveBill("bill-b", at)

	bills, _, err := s.storage.ListBills(s.ctx, 0, 10)
	s.Require().NoError(err)

	s.Require().Len(bills, 2)
	s.Equal(model.BillID("bill-b"), bills[0].ID)
	s.Equal(model.BillID("bill-a"), bills[1].ID)
}
