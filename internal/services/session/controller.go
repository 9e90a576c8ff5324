package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tabsplit/tabsplit/internal/dependencies/clock"
	"github.com/tabsplit/tabsplit/internal/dependencies/ident"
	"github.com/tabsplit/tabsplit/internal/extract"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/split"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// Length of user-facing session codes
const codeLength = 8

// Controller manages the bill-session state machine.
//
// Sessions move Draft -> Calculated -> Completed. Any item or participant
// mutation while Calculated drops the session back to Draft and discards
// the stale split results. All writes are replace-on-write: the stored
// record is cloned, mutated, then saved whole. Callers must serialize
// writes to the same session id; concurrent readers always see a
// complete snapshot.
type Controller struct {
	storage storage.Storage
	extract *extract.Service
	clock   clock.Clock
	ids     ident.Source
	logger  *slog.Logger
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	extractService *extract.Service,
	clock clock.Clock,
	ids ident.Source,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		extract: extractService,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// CreateSession produces a new empty session in Draft
func (c *Controller) CreateSession(ctx context.Context) (*model.Session, error) {
	now := c.clock.Now()
	session := &model.Session{
		ID:           model.SessionID(c.ids.Code(codeLength)),
		Items:        []model.BillItem{},
		Participants: []model.Participant{},
		Status:       model.SessionStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created", slog.String("session_id", string(session.ID)))
	return session, nil
}

// GetSession retrieves a session by id
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// SetItems replaces the session's item list. Items without an id are
// assigned one; prices are normalized to cent precision; participant ids
// not present in the session are pruned so items never reference unknown
// participants. Rejects the whole update, leaving the session unchanged,
// if any item is malformed.
func (c *Controller) SetItems(ctx context.Context, id model.SessionID, items []model.BillItem) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}

	updated := session.Clone()
	updated.Items = c.normalizeItems(items, updated.ParticipantIDSet())
	c.invalidateSplits(updated)
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, updated); err != nil {
		return nil, err
	}

	c.logger.Info("session items replaced",
		slog.String("session_id", string(id)),
		slog.Int("item_count", len(updated.Items)),
	)
	return updated, nil
}

// SetParticipants replaces the session's participant list. Participants
// without an id are assigned one. Item assignments referencing
// participants no longer in the session are pruned.
func (c *Controller) SetParticipants(ctx context.Context, id model.SessionID, participants []model.Participant) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}

	for _, p := range participants {
		if strings.TrimSpace(p.Name) == "" {
			return nil, model.ErrEmptyParticipantName
		}
	}

	updated := session.Clone()
	updated.Participants = make([]model.Participant, len(participants))
	for i, p := range participants {
		if p.ID == "" {
			p.ID = c.ids.NewID()
		}
		updated.Participants[i] = p
	}

	// Keep the invariant: every item's participant set is a subset of
	// the session's participants
	known := updated.ParticipantIDSet()
	for i := range updated.Items {
		updated.Items[i].ParticipantIDs = pruneIDs(updated.Items[i].ParticipantIDs, known)
	}

	c.invalidateSplits(updated)
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, updated); err != nil {
		return nil, err
	}

	c.logger.Info("session participants replaced",
		slog.String("session_id", string(id)),
		slog.Int("participant_count", len(updated.Participants)),
	)
	return updated, nil
}

// RemoveParticipant removes one participant and prunes their id from
// every item's participant set
func (c *Controller) RemoveParticipant(ctx context.Context, id model.SessionID, participantID string) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}
	if !session.HasParticipant(participantID) {
		return nil, model.ErrParticipantNotFound
	}

	updated := session.Clone()

	remaining := updated.Participants[:0]
	for _, p := range updated.Participants {
		if p.ID != participantID {
			remaining = append(remaining, p)
		}
	}
	updated.Participants = remaining

	for i := range updated.Items {
		ids := updated.Items[i].ParticipantIDs[:0]
		for _, pid := range updated.Items[i].ParticipantIDs {
			if pid != participantID {
				ids = append(ids, pid)
			}
		}
		updated.Items[i].ParticipantIDs = ids
	}

	c.invalidateSplits(updated)
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, updated); err != nil {
		return nil, err
	}

	c.logger.Info("participant removed",
		slog.String("session_id", string(id)),
		slog.String("participant_id", participantID),
	)
	return updated, nil
}

// Calculate computes splits for the current items and participants and
// moves the session to Calculated. Recalculating with unchanged data
// yields identical results.
func (c *Controller) Calculate(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}
	if len(session.Participants) == 0 {
		return nil, model.ErrNoParticipants
	}

	result := split.Compute(session.Items, session.Participants)

	updated := session.Clone()
	updated.Splits = result.PerParticipant
	updated.TotalAmount = result.Total
	updated.Status = model.SessionStatusCalculated
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, updated); err != nil {
		return nil, err
	}

	c.logger.Info("session calculated",
		slog.String("session_id", string(id)),
		slog.Float64("total", result.Total),
	)
	return updated, nil
}

// ExtractItems runs item extraction over recognized receipt text and
// installs the candidates as the session's items. This is an item
// mutation; the usual staleness and completed-state rules apply. Zero
// extracted items is not an error, the caller falls back to manual entry.
func (c *Controller) ExtractItems(ctx context.Context, id model.SessionID, rawText string) (*model.Session, error) {
	candidates := c.extract.Extract(rawText)
	return c.SetItems(ctx, id, candidates)
}

// SetReceiptFile records the stored receipt image filename on the
// session. This does not touch items or participants, so split results
// stay valid.
func (c *Controller) SetReceiptFile(ctx context.Context, id model.SessionID, filename string) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return nil, model.ErrSessionCompleted
	}

	updated := session.Clone()
	updated.ReceiptFile = filename
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// invalidateSplits applies the Calculated -> Draft back-edge: any
// mutation makes previously computed splits stale, and stale numbers
// must never be shown for data they no longer describe
func (c *Controller) invalidateSplits(session *model.Session) {
	if session.Status != model.SessionStatusCalculated {
		return
	}
	session.Status = model.SessionStatusDraft
	session.Splits = nil
	session.TotalAmount = 0
}

// normalizeItems assigns missing item ids, rounds prices to cents, and
// prunes participant ids that are not in the session
func (c *Controller) normalizeItems(items []model.BillItem, known map[string]struct{}) []model.BillItem {
	normalized := model.CloneItems(items)
	if normalized == nil {
		normalized = []model.BillItem{}
	}
	for i := range normalized {
		if normalized[i].ID == "" {
			normalized[i].ID = c.ids.NewID()
		}
		normalized[i].Name = strings.TrimSpace(normalized[i].Name)
		normalized[i].Price = math.Round(normalized[i].Price*100) / 100
		normalized[i].ParticipantIDs = pruneIDs(normalized[i].ParticipantIDs, known)
	}
	return normalized
}

func validateItems(items []model.BillItem) error {
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return model.ErrEmptyItemName
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return fmt.Errorf("item %q: %w", item.Name, model.ErrInvalidPrice)
		}
	}
	return nil
}

// pruneIDs returns ids restricted to the known set, deduplicated,
// preserving first-occurrence order
func pruneIDs(ids []string, known map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
