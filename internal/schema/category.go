package schema

import (
	"strings"
)

// Category is a canonical procurement category.
type Category string

const (
	MRO      Category = "MRO"
	Services Category = "Services"
	Capex    Category = "Capex"
	PCM      Category = "PCM"
)

// Uncategorized is the presentation label for records with no resolved category.
// Internally an unresolved category is the empty string so the health report can
// count it without colliding with a real category name.
const Uncategorized = "Uncategorized"

var allCategories = []Category{MRO, Services, Capex, PCM}

// Categories returns the canonical category names in display order.
func Categories() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// IsCategory reports whether name is one of the canonical categories (exact match).
func IsCategory(name string) bool {
	for _, cat := range allCategories {
		if name == string(cat) {
			return true
		}
	}
	return false
}

// Canonicalize maps free-text input onto a canonical category. The second return
// value is false when the input is empty or matches nothing.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	// synonyms map
	synonyms := map[string]Category{
		"maintenance":         MRO,
		"repair":              MRO,
		"operations":          MRO,
		"spares":              MRO,
		"service":             Services,
		"contract services":   Services,
		"capital":             Capex,
		"capital expenditure": Capex,
		"project":             Capex,
		"process consumables": PCM,
		"process material":    PCM,
		"raw material":        PCM,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return "", false
}
