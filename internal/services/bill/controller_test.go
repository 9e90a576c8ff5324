package bill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tabsplit/tabsplit/internal/dependencies/mocks"
	"github.com/tabsplit/tabsplit/internal/extract"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/services/session"
	"github.com/tabsplit/tabsplit/internal/storage/memory"
	"github.com/tabsplit/tabsplit/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ids        *mocks.MockIdent
	sessions   *session.Controller
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIdent()
	logger := testutil.NopLogger()
	s.sessions = session.NewController(s.storage, extract.New(s.ids, logger), s.clock, s.ids, logger)
	s.controller = NewController(s.storage, s.clock, s.ids, logger)
	s.ctx = context.Background()
}

// newCalculatedSession builds a session that is ready to finalize
func (s *ControllerSuite) newCalculatedSession() *model.Session {
	created, err := s.sessions.CreateSession(s.ctx)
	s.Require().NoError(err)

	_, err = s.sessions.SetParticipants(s.ctx, created.ID, []model.Participant{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	})
	s.Require().NoError(err)

	_, err = s.sessions.SetItems(s.ctx, created.ID, []model.BillItem{
		{ID: "i1", Name: "Pizza", Price: 10.00, ParticipantIDs: []string{"alice", "bob"}},
		{ID: "i2", Name: "Soda", Price: 5.00, ParticipantIDs: []string{"alice"}},
	})
	s.Require().NoError(err)

	calculated, err := s.sessions.Calculate(s.ctx, created.ID)
	s.Require().NoError(err)
	return calculated
}

// Finalize tests

func (s *ControllerSuite) TestFinalizeSnapshotsSession() {
	calculated := s.newCalculatedSession()
	s.ids.QueueIDs("bill-1")

	bill, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	s.Equal(model.BillID("bill-1"), bill.ID)
	s.Equal(calculated.ID, bill.SessionID)
	s.Len(bill.Items, 2)
	s.Equal(15.0, bill.TotalAmount)
	s.Equal(10.0, bill.Splits["alice"])
	s.Equal(5.0, bill.Splits["bob"])
	s.Equal(s.clock.Now(), bill.CreatedAt)
}

func (s *ControllerSuite) TestFinalizeMovesSessionToCompleted() {
	calculated := s.newCalculatedSession()

	_, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	stored, err := s.storage.GetSession(s.ctx, calculated.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusCompleted, stored.Status)
}

func (s *ControllerSuite) TestFinalizeFailsOnDraftSession() {
	created, err := s.sessions.CreateSession(s.ctx)
	s.Require().NoError(err)

	_, err = s.controller.Finalize(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotCalculated)
}

func (s *ControllerSuite) TestFinalizeFailsOnCompletedSession() {
	calculated := s.newCalculatedSession()

	_, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	_, err = s.controller.Finalize(s.ctx, calculated.ID)
	s.ErrorIs(err, model.ErrSessionCompleted)
}

func (s *ControllerSuite) TestFinalizeFailsOnUnknownSession() {
	_, err := s.controller.Finalize(s.ctx, "NOPE1234")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestFinalizedBillIsIsolatedFromSessionRecord() {
	calculated := s.newCalculatedSession()

	bill, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	// Scribble over the stored session record; the bill snapshot must
	// not change
	stored, err := s.storage.GetSession(s.ctx, calculated.ID)
	s.Require().NoError(err)
	stored.Items[0].Name = "Scribbled"
	stored.Splits["alice"] = 999

	retrieved, err := s.controller.GetBill(s.ctx, bill.ID)
	s.Require().NoError(err)
	s.Equal("Pizza", retrieved.Items[0].Name)
	s.Equal(10.0, retrieved.Splits["alice"])
}

// ListBills tests

func (s *ControllerSuite) TestListBillsNewestFirst() {
	for i := 0; i < 3; i++ {
		calculated := s.newCalculatedSession()
		_, err := s.controller.Finalize(s.ctx, calculated.ID)
		s.Require().NoError(err)
		s.clock.Advance(time.Hour)
	}

	bills, page, err := s.controller.ListBills(s.ctx, 1, 10)
	s.Require().NoError(err)

	s.Require().Len(bills, 3)
	s.Equal(3, page.TotalItems)
	s.Equal(1, page.TotalPages)
	s.True(bills[0].CreatedAt.After(bills[1].CreatedAt))
	s.True(bills[1].CreatedAt.After(bills[2].CreatedAt))
}

func (s *ControllerSuite) TestListBillsPaginates() {
	for i := 0; i < 5; i++ {
		calculated := s.newCalculatedSession()
		_, err := s.controller.Finalize(s.ctx, calculated.ID)
		s.Require().NoError(err)
		s.clock.Advance(time.Hour)
	}

	first, page, err := s.controller.ListBills(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Len(first, 2)
	s.Equal(5, page.TotalItems)
	s.Equal(3, page.TotalPages)

	last, page, err := s.controller.ListBills(s.ctx, 3, 2)
	s.Require().NoError(err)
	s.Len(last, 1)
	s.Equal(3, page.Page)
}

func (s *ControllerSuite) TestListBillsPastTheEndIsEmpty() {
	calculated := s.newCalculatedSession()
	_, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	bills, page, err := s.controller.ListBills(s.ctx, 7, 10)
	s.Require().NoError(err)
	s.Empty(bills)
	s.Equal(1, page.TotalItems)
}

func (s *ControllerSuite) TestListBillsNormalizesPageArguments() {
	calculated := s.newCalculatedSession()
	_, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	bills, page, err := s.controller.ListBills(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Len(bills, 1)
	s.Equal(1, page.Page)
	s.Equal(defaultPageSize, page.PageSize)

	_, page, err = s.controller.ListBills(s.ctx, 1, 10000)
	s.Require().NoError(err)
	s.Equal(maxPageSize, page.PageSize)
}

func (s *ControllerSuite) TestListBillsEmptyArchive() {
	bills, page, err := s.controller.ListBills(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Empty(bills)
	s.Equal(0, page.TotalItems)
	s.Equal(0, page.TotalPages)
}

// GetBill / DeleteBill tests

func (s *ControllerSuite) TestGetBillNotFound() {
	_, err := s.controller.GetBill(s.ctx, "nope")
	s.ErrorIs(err, model.ErrBillNotFound)
}

func (s *ControllerSuite) TestDeleteBill() {
	calculated := s.newCalculatedSession()
	bill, err := s.controller.Finalize(s.ctx, calculated.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.DeleteBill(s.ctx, bill.ID))

	_, err = s.controller.GetBill(s.ctx, bill.ID)
	s.ErrorIs(err, model.ErrBillNotFound)
}

func (s *ControllerSuite) TestDeleteBillNotFound() {
	err := s.controller.DeleteBill(s.ctx, "nope")
	s.ErrorIs(err, model.ErrBillNotFound)
}
