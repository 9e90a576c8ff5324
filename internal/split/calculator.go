// Package split computes per-participant owed amounts for a bill session.
package split

import (
	"math"

	"github.com/tabsplit/tabsplit/internal/model"
)

// Result holds the outcome of a split computation
type Result struct {
	// PerParticipant maps participant id to owed amount. Every
	// participant passed to Compute has an entry, including those with
	// no assigned items.
	PerParticipant map[string]float64

	// Total is the sum of all item prices, including items assigned to
	// nobody.
	Total float64
}

// Compute calculates each participant's share of the given items.
//
// Each item assigned to at least one participant contributes
// price / len(assignees) to every assignee. Items with an empty
// participant set count toward Total but toward no participant's share;
// unassigned cost is never silently redistributed. No rounding is applied
// during accumulation: display rounding belongs to the presentation
// layer, otherwise rounding error compounds across items.
func Compute(items []model.BillItem, participants []model.Participant) Result {
	perParticipant := make(map[string]float64, len(participants))
	for _, p := range participants {
		perParticipant[p.ID] = 0
	}

	var total float64
	for _, item := range items {
		total += item.Price

		if len(item.ParticipantIDs) == 0 {
			continue
		}

		share := item.Price / float64(len(item.ParticipantIDs))
		for _, id := range item.ParticipantIDs {
			if _, ok := perParticipant[id]; ok {
				perParticipant[id] += share
			}
		}
	}

	return Result{
		PerParticipant: perParticipant,
		Total:          total,
	}
}

// RoundCurrency rounds an amount to two decimal places. Apply only at
// presentation time, after all summation is done.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
