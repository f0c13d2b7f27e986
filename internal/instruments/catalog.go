package instruments

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"clinscore/internal/models"
)

// Filter narrows a catalog search. Empty fields match everything.
type Filter struct {
	Letter   string
	Category string
}

// List returns every registered instrument in catalog order.
func List() []models.Instrument {
	out := make([]models.Instrument, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id].Instrument)
	}
	return out
}

// Get returns the catalog entry for id.
func Get(id string) (models.Instrument, error) {
	def, err := lookup(id)
	if err != nil {
		return models.Instrument{}, err
	}
	return def.Instrument, nil
}

// Search matches query case-insensitively against name, description and
// category, then applies the letter and category filters.
func Search(query string, filter Filter) []models.Instrument {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Instrument{}
	for _, inst := range List() {
		if query != "" && !matchesQuery(inst, query) {
			continue
		}
		if filter.Letter != "" && !startsWithLetter(inst.Name, filter.Letter) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(inst.Category, strings.TrimSpace(filter.Category)) {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, inst := range List() {
		if !seen[inst.Category] {
			seen[inst.Category] = true
			out = append(out, inst.Category)
		}
	}
	return out
}

func matchesQuery(inst models.Instrument, query string) bool {
	return strings.Contains(strings.ToLower(inst.Name), query) ||
		strings.Contains(strings.ToLower(inst.Description), query) ||
		strings.Contains(strings.ToLower(inst.Category), query)
}

func startsWithLetter(name, letter string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	want, _ := utf8.DecodeRuneInString(letter)
	return first != utf8.RuneError && unicode.ToLower(first) == unicode.ToLower(want)
}
