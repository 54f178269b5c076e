package catalog

import (
	"log"
	"regexp"
	"strings"

	"comanda/order-svc/internal/domain"
)

// A matcher is one tier of the product search. Tiers are tried in order and
// the first product any tier returns wins, so the order of the matchers
// slice is significant.
type matcher struct {
	name string
	fn   func(products []domain.Product, term string) *domain.Product
}

var matchers = []matcher{
	{"exact", matchExact},
	{"inclusion", matchInclusion},
	{"variant", matchVariant},
	{"keyword", matchKeyword},
	{"synonym", matchSynonym},
}

var parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

// synonymTable is bidirectional: a term mentioning either the key or one of
// its synonyms matches a product mentioning any of them. Kept as a slice so
// lookups stay deterministic.
var synonymTable = []struct {
	key      string
	synonyms []string
}{
	{"refresco", []string{"refrescos", "bebida", "soda"}},
	{"cola", []string{"coca", "cocacola", "coca cola", "pepsi"}},
	{"fresa", []string{"strawberry", "frutilla"}},
	{"toronja", []string{"pomelo", "grapefruit"}},
	{"torta", []string{"sandwich", "sándwich", "emparedado"}},
	{"jamón", []string{"jamon", "ham"}},
}

// FindProductByName resolves a free-text product mention against a menu's
// products. Returns nil when no tier matches; absence is a normal result,
// not an error.
func FindProductByName(products []domain.Product, searchName string) *domain.Product {
	normalized := strings.ToLower(strings.TrimSpace(searchName))
	if normalized == "" {
		return nil
	}

	for _, m := range matchers {
		if found := m.fn(products, normalized); found != nil {
			log.Printf("[catalog] %q matched %q via %s", searchName, found.Name, m.name)
			return found
		}
	}

	log.Printf("[catalog] no product found for %q", searchName)
	return nil
}

func matchExact(products []domain.Product, term string) *domain.Product {
	for i := range products {
		if strings.TrimSpace(strings.ToLower(products[i].Name)) == term {
			return &products[i]
		}
	}
	return nil
}

func matchInclusion(products []domain.Product, term string) *domain.Product {
	for i := range products {
		name := strings.ToLower(products[i].Name)
		if strings.Contains(name, term) || strings.Contains(term, name) {
			return &products[i]
		}
	}
	return nil
}

// matchVariant looks inside a parenthetical variant list:
// "Refrescos (Cola, fresa)" exposes the variants "cola" and "fresa".
func matchVariant(products []domain.Product, term string) *domain.Product {
	for i := range products {
		m := parenthetical.FindStringSubmatch(products[i].Name)
		if m == nil {
			continue
		}
		for _, variant := range strings.Split(strings.ToLower(m[1]), ",") {
			variant = strings.TrimSpace(variant)
			if strings.Contains(variant, term) || strings.Contains(term, variant) || similar(variant, term) {
				return &products[i]
			}
		}
	}
	return nil
}

func matchKeyword(products []domain.Product, term string) *domain.Product {
	var words []string
	for _, w := range strings.Fields(term) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	for i := range products {
		name := strings.ToLower(products[i].Name)
		variants := ""
		if m := parenthetical.FindStringSubmatch(products[i].Name); m != nil {
			variants = strings.ToLower(m[1])
		}
		for _, word := range words {
			if strings.Contains(name, word) || strings.Contains(variants, word) {
				return &products[i]
			}
		}
	}
	return nil
}

func matchSynonym(products []domain.Product, term string) *domain.Product {
	for _, entry := range synonymTable {
		if !containsAny(term, entry.key, entry.synonyms) {
			continue
		}
		for i := range products {
			if containsAny(strings.ToLower(products[i].Name), entry.key, entry.synonyms) {
				return &products[i]
			}
		}
	}
	return nil
}

func containsAny(text, key string, synonyms []string) bool {
	if strings.Contains(text, key) {
		return true
	}
	for _, syn := range synonyms {
		if strings.Contains(text, syn) {
			return true
		}
	}
	return false
}

// similar reports whether two strings are close enough to count as the same
// variant: the shorter must be at least 3 runes, the length ratio at least
// 0.7, and one must contain the other.
func similar(a, b string) bool {
	minLen, maxLen := len([]rune(a)), len([]rune(b))
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if minLen < 3 {
		return false
	}
	if float64(minLen)/float64(maxLen) < 0.7 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
