package bill

import (
	"context"
	"log/slog"

	"github.com/tabsplit/tabsplit/internal/dependencies/clock"
	"github.com/tabsplit/tabsplit/internal/dependencies/ident"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Controller manages finalized bills: freezing calculated sessions into
// immutable Bill records and serving the bill archive
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ident.Source
	logger  *slog.Logger
}

// NewController creates a new bill controller
func NewController(storage storage.Storage, clock clock.Clock, ids ident.Source, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Finalize snapshots a Calculated session into an immutable Bill and
// moves the session to Completed. The snapshot is a deep copy; later
// reads of the bill are unaffected by anything that happens to the
// session record.
func (c *Controller) Finalize(ctx context.Context, sessionID model.SessionID) (*model.Bill, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}
	if session.Status != model.SessionStatusCalculated {
		return nil, model.ErrSessionNotCalculated
	}

	now := c.clock.Now()

	snapshot := session.Clone()
	bill := &model.Bill{
		ID:           model.BillID(c.ids.NewID()),
		SessionID:    session.ID,
		Items:        snapshot.Items,
		Participants: snapshot.Participants,
		Splits:       snapshot.Splits,
		TotalAmount:  snapshot.TotalAmount,
		CreatedAt:    now,
	}

	if err := c.storage.SaveBill(ctx, bill); err != nil {
		return nil, err
	}

	completed := session.Clone()
	completed.Status = model.SessionStatusCompleted
	completed.UpdatedAt = now
	if err := c.storage.SaveSession(ctx, completed); err != nil {
		return nil, err
	}

	c.logger.Info("session finalized",
		slog.String("session_id", string(sessionID)),
		slog.String("bill_id", string(bill.ID)),
		slog.Float64("total", bill.TotalAmount),
	)
	return bill, nil
}

// ListBills returns one page of bills, newest first
func (c *Controller) ListBills(ctx context.Context, page, pageSize int) ([]*model.Bill, model.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	bills, total, err := c.storage.ListBills(ctx, offset, pageSize)
	if err != nil {
		return nil, model.Page{}, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	info := model.Page{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
	return bills, info, nil
}

// GetBill retrieves a bill by id
func (c *Controller) GetBill(ctx context.Context, id model.BillID) (*model.Bill, error) {
	return c.storage.GetBill(ctx, id)
}

// DeleteBill removes a bill. Deleting an unknown bill id reports
// not-found rather than succeeding silently.
func (c *Controller) DeleteBill(ctx context.Context, id model.BillID) error {
	if _, err := c.storage.GetBill(ctx, id); err != nil {
		return err
	}
	if err := c.storage.DeleteBill(ctx, id); err != nil {
		return err
	}
	c.logger.Info("bill deleted", slog.String("bill_id", string(id)))
	return nil
}
