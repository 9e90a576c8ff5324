// Package extract turns raw OCR text into candidate bill items.
//
// Extraction is best-effort: OCR output is noisy and inconsistent about
// currency-symbol placement, so each line is tried against a fixed
// priority order of shapes and aggregate-looking lines are rejected.
// Unparseable text produces an empty result rather than an error; the
// caller is expected to fall back to manual entry.
package extract

import (
	"log/slog"
	"strings"

	"github.com/tabsplit/tabsplit/internal/dependencies/ident"
	"github.com/tabsplit/tabsplit/internal/model"
)

// Service extracts candidate bill items from recognized receipt text
type Service struct {
	ids    ident.Source
	logger *slog.Logger
}

// New creates a new extraction service
func New(ids ident.Source, logger *slog.Logger) *Service {
	return &Service{
		ids:    ids,
		logger: logger,
	}
}

// Extract parses raw receipt text into bill items in line order. Each
// emitted item gets a fresh unique id and an empty participant set. The
// text is parsed once per call from scratch; re-invocation does not
// resume anywhere.
func (s *Service) Extract(rawText string) []model.BillItem {
	items := []model.BillItem{}

	var matched, rejected int
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		result := parseLine(line)
		switch result.kind {
		case lineMatched:
			matched++
			items = append(items, model.BillItem{
				ID:             s.ids.NewID(),
				Name:           result.name,
				Price:          result.price,
				ParticipantIDs: []string{},
			})
		case lineRejected:
			rejected++
		}
	}

	s.logger.Debug("extracted items from receipt text",
		slog.Int("matched", matched),
		slog.Int("rejected", rejected),
	)

	return items
}
