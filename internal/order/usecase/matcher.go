package usecase

import (
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

// productMatcher resolves line item names to local products by
// case-insensitive containment. Products are tried in the order given.
type productMatcher struct {
	names []string
	ids   []string
}

func newProductMatcher(refs []model.ProductRef) *productMatcher {
	m := &productMatcher{
		names: make([]string, 0, len(refs)),
		ids:   make([]string, 0, len(refs)),
	}
	for _, ref := range refs {
		name := strings.ToLower(strings.TrimSpace(ref.Name))
		if name == "" {
			continue
		}
		m.names = append(m.names, name)
		m.ids = append(m.ids, ref.ID)
	}
	return m
}

// Match returns the id of the first product whose name contains, or is
// contained in, lineName.
func (m *productMatcher) Match(lineName string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(lineName))
	if needle == "" {
		return "", false
	}
	for i, name := range m.names {
		if strings.Contains(needle, name) || strings.Contains(name, needle) {
			return m.ids[i], true
		}
	}
	return "", false
}
