package response

import (
	"time"

	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/split"
)

// Participant represents a participant in API responses
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DisplayTag string `json:"display_tag,omitempty"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p model.Participant) Participant {
	return Participant{
		ID:         p.ID,
		Name:       p.Name,
		DisplayTag: p.DisplayTag,
	}
}

// BillItem represents a bill item in API responses
type BillItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ParticipantIDs []string `json:"participant_ids"`
}

// BillItemFromModel converts a model.BillItem
func BillItemFromModel(i model.BillItem) BillItem {
	ids := i.ParticipantIDs
	if ids == nil {
		ids = []string{}
	}
	return BillItem{
		ID:             i.ID,
		Name:           i.Name,
		Price:          i.Price,
		ParticipantIDs: ids,
	}
}

// Session represents a session in API responses. Splits and total are
// present only once the session has been calculated, and are rounded to
// cents here at the presentation boundary.
type Session struct {
	ID           string             `json:"id"`
	Items        []BillItem         `json:"items"`
	Participants []Participant      `json:"participants"`
	Splits       map[string]float64 `json:"splits,omitempty"`
	TotalAmount  *float64           `json:"total_amount,omitempty"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	items := make([]BillItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = BillItemFromModel(item)
	}

	participants := make([]Participant, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = ParticipantFromModel(p)
	}

	resp := Session{
		ID:           string(s.ID),
		Items:        items,
		Participants: participants,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.Splits != nil {
		resp.Splits = roundSplits(s.Splits)
		total := split.RoundCurrency(s.TotalAmount)
		resp.TotalAmount = &total
	}

	return resp
}

// Bill represents a finalized bill in API responses
type Bill struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"session_id,omitempty"`
	Items        []BillItem         `json:"items"`
	Participants []Participant      `json:"participants"`
	Splits       map[string]float64 `json:"splits"`
	TotalAmount  float64            `json:"total_amount"`
	CreatedAt    time.Time          `json:"created_at"`
}

// BillFromModel converts a model.Bill
func BillFromModel(b *model.Bill) Bill {
	items := make([]BillItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = BillItemFromModel(item)
	}

	participants := make([]Participant, len(b.Participants))
	for i, p := range b.Participants {
		participants[i] = ParticipantFromModel(p)
	}

	return Bill{
		ID:           string(b.ID),
		SessionID:    string(b.SessionID),
		Items:        items,
		Participants: participants,
		Splits:       roundSplits(b.Splits),
		TotalAmount:  split.RoundCurrency(b.TotalAmount),
		CreatedAt:    b.CreatedAt,
	}
}

// BillPage is one page of the bill archive
type BillPage struct {
	Bills      []Bill     `json:"bills"`
	Pagination model.Page `json:"pagination"`
}

// BillPageFromModel converts a page of bills
func BillPageFromModel(bills []*model.Bill, page model.Page) BillPage {
	out := make([]Bill, len(bills))
	for i, b := range bills {
		out[i] = BillFromModel(b)
	}
	return BillPage{Bills: out, Pagination: page}
}

// CleanupResult reports how many receipt files a cleanup pass removed
type CleanupResult struct {
	Removed int `json:"removed"`
}

func roundSplits(splits map[string]float64) map[string]float64 {
	rounded := make(map[string]float64, len(splits))
	for id, amount := range splits {
		rounded[id] = split.RoundCurrency(amount)
	}
	return rounded
}
