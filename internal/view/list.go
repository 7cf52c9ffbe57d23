// Package view composes render-ready view-models from the crafting index.
// It owns no state of its own beyond the caller's transient UI inputs; every
// compose call re-queries the index, so re-rendering with the same inputs is
// idempotent.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/BobbyLangan/ultracube-factoriopedia/internal/index"
)

// Sort keys for the list page.
const (
	SortByName = "name"
	SortByType = "type"
)

// ListState is the list page's transient UI state: free-text query, type
// filter and sort key.
type ListState struct {
	Query string
	Type  string
	Sort  string
}

func (s ListState) filtered() bool {
	return strings.TrimSpace(s.Query) != "" || s.Type != ""
}

// Card is one item tile on the list page.
type Card struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Icon        string `json:"icon,omitempty"`
	// Placeholder marks an item with no icon mapping; the page renders a
	// stand-in glyph instead of a broken image reference.
	Placeholder bool `json:"placeholder"`
}

// List is the composed list page.
type List struct {
	Cards   []Card   `json:"cards"`
	Summary string   `json:"summary"`
	Types   []string `json:"types"`
	// Suggestion is the closest-named item when a search matched nothing,
	// nil when there is nothing sensible to offer.
	Suggestion *Card `json:"suggestion,omitempty"`
}

// ComposeList runs the search, sorts the hits by the requested key and
// builds one card per item. The summary reads "N of M items" when any
// filter is active and "M items total" otherwise.
func ComposeList(idx *index.Index, st ListState) List {
	items := idx.SearchItems(st.Query, st.Type)

	switch st.Sort {
	case SortByType:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Type != items[j].Type {
				return items[i].Type < items[j].Type
			}
			return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
		})
	}

	cards := make([]Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, itemCard(idx, it))
	}

	total := len(idx.Items())
	out := List{Cards: cards, Types: idx.ItemTypes()}
	if st.filtered() {
		out.Summary = fmt.Sprintf("%d of %d items", len(cards), total)
	} else {
		out.Summary = fmt.Sprintf("%d items total", total)
	}
	if len(cards) == 0 {
		if it, ok := closestItem(idx, st.Query); ok {
			c := itemCard(idx, it)
			out.Suggestion = &c
		}
	}
	return out
}

func itemCard(idx *index.Index, it index.Item) Card {
	icon, ok := idx.Icon(it.ID)
	return Card{
		ID:          it.ID,
		DisplayName: it.DisplayName,
		Type:        it.Type,
		Icon:        icon,
		Placeholder: !ok,
	}
}

// closestItem offers a "did you mean" candidate for a search that matched
// nothing: the item whose display name is within a length-scaled edit
// distance of the query, earliest declared item winning ties.
func closestItem(idx *index.Index, query string) (index.Item, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 3 {
		return index.Item{}, false
	}
	var (
		best     index.Item
		bestDist = -1
	)
	for _, it := range idx.Items() {
		cand := strings.ToLower(it.DisplayName)
		dist := levenshtein.ComputeDistance(q, cand)
		if dist > editLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = it, dist
		}
	}
	return best, bestDist >= 0
}

func editLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
