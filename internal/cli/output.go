package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Bill:
		o.printBill(v)
	case BillPage:
		o.printBillPage(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Participant response type (matches API)
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DisplayTag string `json:"display_tag,omitempty"`
}

// BillItem response type
type BillItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ParticipantIDs []string `json:"participant_ids"`
}

// Session response type
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

// Bill response type
type Bill struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"session_id,omitempty"`
	Items        []BillItem         `json:"items"`
	Participants []Participant      `json:"participants"`
	Splits       map[string]float64 `json:"splits"`
	TotalAmount  float64            `json:"total_amount"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Page response type
type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// BillPage response type
type BillPage struct {
	Bills      []Bill `json:"bills"`
	Pagination Page   `json:"pagination"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Status: %s\n", s.Status)

	names := participantNames(s.Participants)

	fmt.Printf("Participants (%d):\n", len(s.Participants))
	for _, p := range s.Participants {
		tag := ""
		if p.DisplayTag != "" {
			tag = fmt.Sprintf(" [%s]", p.DisplayTag)
		}
		fmt.Printf("  - %s (%s)%s\n", p.Name, p.ID, tag)
	}

	fmt.Printf("Items (%d):\n", len(s.Items))
	for _, item := range s.Items {
		shared := "unassigned"
		if len(item.ParticipantIDs) > 0 {
			labels := make([]string, len(item.ParticipantIDs))
			for i, id := range item.ParticipantIDs {
				labels[i] = nameOrID(names, id)
			}
			shared = strings.Join(labels, ", ")
		}
		fmt.Printf("  - %s  %.2f  (%s)\n", item.Name, item.Price, shared)
	}

	if s.Splits != nil {
		o.printSplits(s.Splits, names)
	}
	if s.TotalAmount != nil {
		fmt.Printf("Total: %.2f\n", *s.TotalAmount)
	}
}

func (o *Output) printBill(b Bill) {
	fmt.Printf("Bill: %s\n", b.ID)
	if b.SessionID != "" {
		fmt.Printf("Session: %s\n", b.SessionID)
	}
	fmt.Printf("Created: %s\n", b.CreatedAt.Format(time.RFC3339))

	names := participantNames(b.Participants)

	fmt.Printf("Items (%d):\n", len(b.Items))
	for _, item := range b.Items {
		fmt.Printf("  - %s  %.2f\n", item.Name, item.Price)
	}

	o.printSplits(b.Splits, names)
	fmt.Printf("Total: %.2f\n", b.TotalAmount)
}

func (o *Output) printBillPage(p BillPage) {
	fmt.Printf("Bills (page %d of %d, %d total):\n",
		p.Pagination.Page, p.Pagination.TotalPages, p.Pagination.TotalItems)
	for _, b := range p.Bills {
		fmt.Printf("  - %s  %.2f  %d items  %s\n",
			b.ID, b.TotalAmount, len(b.Items), b.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (o *Output) printSplits(splits map[string]float64, names map[string]string) {
	fmt.Println("Splits:")
	ids := make([]string, 0, len(splits))
	for id := range splits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %s: %.2f\n", nameOrID(names, id), splits[id])
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func participantNames(participants []Participant) map[string]string {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names
}

func nameOrID(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}
