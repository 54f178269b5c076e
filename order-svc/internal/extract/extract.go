package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Item is one product mention pulled out of a free-text reply.
// UnitPrice is nil when the text did not carry an explicit price.
type Item struct {
	ProductName string
	Quantity    int
	UnitPrice   *float64
}

// Primary pattern: enumerated or bulleted lines like
// "1. Pizza Margarita x2 - $12.50" or "- Coca Cola x1".
var linePattern = regexp.MustCompile(`(?i)(?:\d+\.|[-•])\s*(.+?)\s*x(\d+)(?:\s*[-–]\s*\$?([\d,]+(?:\.\d{2})?))?`)

// Looser fallback applied to the whole text when no line matched:
// "<name> x <qty>" without enumeration markers.
var loosePattern = regexp.MustCompile(`(?i)([\pL][\pL\d ]*?)\s*x\s*(\d+)`)

// Items parses an agent reply believed to contain an itemized order.
// It is a pure function: no I/O, same input always yields the same output.
// Returns nil when nothing in the text looks like an order item; the caller
// decides whether that is a failure.
func Items(input string) []Item {
	var items []Item

	for _, line := range strings.Split(input, "\n") {
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		item := Item{
			ProductName: strings.TrimSpace(m[1]),
			Quantity:    quantity,
		}

		if m[3] != "" {
			if price, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", ""), 64); err == nil {
				item.UnitPrice = &price
			}
		}

		items = append(items, item)
	}

	if len(items) > 0 {
		return items
	}

	for _, m := range loosePattern.FindAllStringSubmatch(input, -1) {
		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		items = append(items, Item{
			ProductName: strings.TrimSpace(m[1]),
			Quantity:    quantity,
		})
	}

	return items
}
