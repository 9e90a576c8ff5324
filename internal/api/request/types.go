package request

// Item is a bill item as supplied by the client. ID is optional; the
// server assigns one when missing.
type Item struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

// Participant is a participant as supplied by the client
type Participant struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	DisplayTag string `json:"display_tag,omitempty"`
}

// SetItemsRequest is the request body for replacing a session's items
type SetItemsRequest struct {
	Items []Item `json:"items"`
}

// SetParticipantsRequest is the request body for replacing a session's
// participants
type SetParticipantsRequest struct {
	Participants []Participant `json:"participants"`
}

// ExtractRequest is the request body for extracting items from already
// recognized text, bypassing image upload and OCR
type ExtractRequest struct {
	Text string `json:"text"`
}

// CleanupRequest is the request body for the receipt-file cleanup
// operation. MaxAgeHours bounds how old a file must be to be removed.
type CleanupRequest struct {
	MaxAgeHours int `json:"max_age_hours"`
}
