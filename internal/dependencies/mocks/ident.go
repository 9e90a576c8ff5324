package mocks

import (
	"fmt"

	"github.com/tabsplit/tabsplit/internal/dependencies/ident"
)

// MockIdent is a deterministic implementation of ident.Source for testing.
// Queued values are returned first; once the queue is exhausted it falls
// back to a predictable counter sequence so tests that generate many ids
// stay stable.
type MockIdent struct {
	IDResults   []string
	idIndex     int
	CodeResults []string
	codeIndex   int
	counter     int
}

// Ensure MockIdent implements Source
var _ ident.Source = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewID returns the next queued id, or a sequential fallback
func (m *MockIdent) NewID() string {
	if m.idIndex < len(m.IDResults) {
		result := m.IDResults[m.idIndex]
		m.idIndex++
		return result
	}
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// Code returns the next queued code, or a sequential fallback
func (m *MockIdent) Code(length int) string {
	if m.codeIndex < len(m.CodeResults) {
		result := m.CodeResults[m.codeIndex]
		m.codeIndex++
		return result
	}
	m.counter++
	return fmt.Sprintf("CODE%d", m.counter)
}

// QueueIDs adds values to the NewID result queue
func (m *MockIdent) QueueIDs(values ...string) {
	m.IDResults = append(m.IDResults, values...)
}

// QueueCodes adds values to the Code result queue
func (m *MockIdent) QueueCodes(values ...string) {
	m.CodeResults = append(m.CodeResults, values...)
}
