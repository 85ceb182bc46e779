package template

import (
	"fmt"
	"strings"
)

// Category is a snippet category tag.
type Category uint8

const (
	// Expansion snippets insert at the caret.
	Expansion Category = 1 << iota
	// SurroundsWith snippets wrap the selected text.
	SurroundsWith
	// SurroundsWithStatement snippets wrap the selected text and need a
	// non-empty statement body.
	SurroundsWithStatement
)

var categoryNames = []struct {
	cat  Category
	name string
}{
	{Expansion, "Expansion"},
	{SurroundsWith, "SurroundsWith"},
	{SurroundsWithStatement, "SurroundsWithStatement"},
}

// String returns the category's canonical name.
func (c Category) String() string {
	for _, cn := range categoryNames {
		if cn.cat == c {
			return cn.name
		}
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCategory parses a category name. Matching ignores case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, cn := range categoryNames {
		if strings.EqualFold(cn.name, s) {
			return cn.cat, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Categories is a set of categories.
type Categories uint8

// NewCategories builds a set from the given categories.
func NewCategories(cats ...Category) Categories {
	var set Categories
	for _, c := range cats {
		set |= Categories(c)
	}
	return set
}

// Has reports whether c is in the set.
func (s Categories) Has(c Category) bool {
	return s&Categories(c) != 0
}

// HasAny reports whether any of cats is in the set.
func (s Categories) HasAny(cats ...Category) bool {
	for _, c := range cats {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no categories.
func (s Categories) IsEmpty() bool {
	return s == 0
}

// List returns the categories in canonical order.
func (s Categories) List() []Category {
	var out []Category
	for _, cn := range categoryNames {
		if s.Has(cn.cat) {
			out = append(out, cn.cat)
		}
	}
	return out
}

// String returns the category names joined by "|".
func (s Categories) String() string {
	names := make([]string, 0, 3)
	for _, c := range s.List() {
		names = append(names, c.String())
	}
	return strings.Join(names, "|")
}

// ParseCategories parses a list of category names into a set.
func ParseCategories(names []string) (Categories, error) {
	var set Categories
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return 0, err
		}
		set |= Categories(c)
	}
	return set, nil
}
