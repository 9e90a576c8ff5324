package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// lineKind classifies the outcome of parsing one line of receipt text
type lineKind int

const (
	// lineNoMatch means no price-bearing shape was found on the line
	lineNoMatch lineKind = iota
	// lineMatched means a candidate item was found and accepted
	lineMatched
	// lineRejected means a shape matched but the candidate was
	// rejected (short name, non-positive price, or aggregate keyword)
	lineRejected
)

// lineResult is the tagged outcome of parsing one line
type lineResult struct {
	kind  lineKind
	name  string
	price float64
}

// Line shapes, tried in priority order; the first matching shape wins and
// no later shape is consulted, even if the candidate is then rejected.
// Each has exactly two capture groups: name and price. The price token is
// an unsigned decimal with an optional integer part and a mandatory
// fractional part.
var linePatterns = []*regexp.Regexp{
	// name, whitespace, optional currency symbol, price
	regexp.MustCompile(`^(.*\S)\s+\$?(\d*\.\d+)$`),
	// name, whitespace, price, optional trailing currency symbol
	regexp.MustCompile(`^(.*\S)\s+(\d*\.\d+)\s*\$?$`),
	// name immediately followed by currency symbol and price
	regexp.MustCompile(`^(.*\S)\$(\d*\.\d+)$`),
}

// Names containing these denote bill-level aggregates, not purchasable
// items, and are never emitted.
var reservedSubstrings = []string{"total", "tax", "subtotal", "tip"}

const minNameLength = 3

// parseLine matches a single trimmed line against the line shapes and
// applies the rejection rules to the first match
func parseLine(line string) lineResult {
	for _, pattern := range linePatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			// The pattern guarantees a well-formed decimal; treat a
			// parse failure like any other rejected candidate
			return lineResult{kind: lineRejected}
		}

		if !acceptable(name, price) {
			return lineResult{kind: lineRejected}
		}

		return lineResult{kind: lineMatched, name: name, price: price}
	}

	return lineResult{kind: lineNoMatch}
}

func acceptable(name string, price float64) bool {
	if utf8.RuneCountInString(name) < minNameLength {
		return false
	}
	if price <= 0 {
		return false
	}

	lower := strings.ToLower(name)
	for _, reserved := range reservedSubstrings {
		if strings.Contains(lower, reserved) {
			return false
		}
	}
	return true
}
