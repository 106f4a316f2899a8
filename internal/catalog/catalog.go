// Package catalog holds the startup-loaded distinct-value lists that feed
// the filter dropdowns, plus the fixed cost-band and month catalogs. The
// lists are loaded once per process; the catalog does not change during a
// session so there is no invalidation path.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"course-catalog/internal/browse"
	"course-catalog/internal/model"
)

// Source provides the distinct-value queries behind the catalog.
type Source interface {
	MajorCategories(ctx context.Context) ([]string, error)
	CategoryPairs(ctx context.Context) ([]model.CategoryPair, error)
	Institutions(ctx context.Context) ([]string, error)
}

// Catalog is the immutable option data for one process lifetime.
type Catalog struct {
	majors       []string
	pairs        []model.CategoryPair
	institutions []string
	collator     *collate.Collator
}

// Load fetches the three distinct-value lists, drops blanks, deduplicates
// and sorts them with Korean collation.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	c := &Catalog{collator: collate.New(language.Korean)}

	majors, err := src.MajorCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading major categories: %w", err)
	}
	c.majors = c.sortedDistinct(majors)

	pairs, err := src.CategoryPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category pairs: %w", err)
	}
	c.pairs = dedupePairs(pairs)

	institutions, err := src.Institutions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading institutions: %w", err)
	}
	c.institutions = c.sortedDistinct(institutions)

	return c, nil
}

// MajorCategories returns the distinct non-blank major categories, collated
// ascending.
func (c *Catalog) MajorCategories() []string {
	return c.majors
}

// SubCategories returns the sub-category options for a major category: the
// distinct sub-categories paired with it, or every distinct sub-category
// when major is empty. Always collated ascending so the UI renders a stable
// order.
func (c *Catalog) SubCategories(major string) []string {
	subs := make([]string, 0, len(c.pairs))
	for _, p := range c.pairs {
		if major == "" || p.MajorCategory == major {
			subs = append(subs, p.SubCategory)
		}
	}
	return c.sortedDistinct(subs)
}

// Institutions returns the distinct non-blank institution names, collated
// ascending.
func (c *Catalog) Institutions() []string {
	return c.institutions
}

// Scope clears a sub-category that does not belong to the selected major
// category, mirroring the transition rule that changing the major resets
// the sub. Applied to selections decoded from the wire, where the pair may
// be stale.
func (c *Catalog) Scope(sel browse.Selection) browse.Selection {
	if sel.SubCategory == "" || sel.MajorCategory == "" {
		return sel
	}
	for _, p := range c.pairs {
		if p.MajorCategory == sel.MajorCategory && p.SubCategory == sel.SubCategory {
			return sel
		}
	}
	sel.SubCategory = ""
	return sel
}

func (c *Catalog) sortedDistinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	c.collator.SortStrings(out)
	return out
}

func dedupePairs(pairs []model.CategoryPair) []model.CategoryPair {
	seen := make(map[model.CategoryPair]bool, len(pairs))
	out := make([]model.CategoryPair, 0, len(pairs))
	for _, p := range pairs {
		if p.MajorCategory == "" || p.SubCategory == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MajorCategory != out[j].MajorCategory {
			return out[i].MajorCategory < out[j].MajorCategory
		}
		return out[i].SubCategory < out[j].SubCategory
	})
	return out
}
