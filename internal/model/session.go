package model

import "time"

// SessionID uniquely identifies a bill session
type SessionID string

// SessionStatus represents the lifecycle phase of a session
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "draft"      // Mutable; no valid split results
	SessionStatusCalculated SessionStatus = "calculated" // Splits match the current items/participants
	SessionStatusCompleted  SessionStatus = "completed"  // Frozen into an immutable Bill
)

// Participant is a person taking part in a bill session
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DisplayTag string `json:"display_tag"`
}

// BillItem is a single priced line from a receipt, assignable to zero or
// more participants. ParticipantIDs holds participant ids only; it never
// owns the participants, and ids are pruned when a participant is removed.
type BillItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ParticipantIDs []string `json:"participant_ids"`
}

// SharedBy reports whether the item is assigned to the given participant
func (i *BillItem) SharedBy(participantID string) bool {
	for _, id := range i.ParticipantIDs {
		if id == participantID {
			return true
		}
	}
	return false
}

// Session is the working, mutable unit of bill-splitting state before it
// is finalized into a Bill
type Session struct {
	ID           SessionID          `json:"id"`
	Items        []BillItem         `json:"items"`
	Participants []Participant      `json:"participants"`
	Splits       map[string]float64 `json:"splits,omitempty"`
	TotalAmount  float64            `json:"total_amount"`
	Status       SessionStatus      `json:"status"`
	ReceiptFile  string             `json:"receipt_file,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// HasParticipant reports whether a participant with the given id is in
// the session
func (s *Session) HasParticipant(id string) bool {
	for _, p := range s.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ParticipantIDSet returns the set of participant ids in the session
func (s *Session) ParticipantIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Participants))
	for _, p := range s.Participants {
		set[p.ID] = struct{}{}
	}
	return set
}

// Clone returns a deep copy of the session. Controllers mutate clones and
// save them whole, so concurrent readers never observe a record
// mid-mutation.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Items = CloneItems(s.Items)
	clone.Participants = make([]Participant, len(s.Participants))
	copy(clone.Participants, s.Participants)
	if s.Splits != nil {
		clone.Splits = make(map[string]float64, len(s.Splits))
		for id, amount := range s.Splits {
			clone.Splits[id] = amount
		}
	}
	return &clone
}

// CloneItems deep-copies a slice of bill items, including each item's
// participant id set
func CloneItems(items []BillItem) []BillItem {
	if items == nil {
		return nil
	}
	out := make([]BillItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.ParticipantIDs != nil {
			out[i].ParticipantIDs = make([]string, len(item.ParticipantIDs))
			copy(out[i].ParticipantIDs, item.ParticipantIDs)
		}
	}
	return out
}
