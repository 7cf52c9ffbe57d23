// Package index turns the pre-extracted Ultracube prototype dataset into a
// normalized, read-only in-memory model with bidirectional crafting lookups.
// An Index is built once by Load and never mutated; rebuilding means loading
// a fresh Index and dropping the old one wholesale.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Item buckets flattened into the single item collection, in merge order.
var itemBuckets = []string{
	"item",
	"fluid",
	"science",
	"armor",
	"module",
	"capsule",
	"repair-tool",
	"item-with-entity-data",
	"rail-planner",
}

// Crafting entity buckets, in merge order.
var machineBuckets = []string{
	"assembling-machine",
	"furnace",
	"mining-drill",
	"lab",
}

// Index holds the normalized dataset and answers point and relational
// queries. All methods are read-only and safe for concurrent use.
type Index struct {
	items      map[string]Item
	itemOrder  []string
	itemTypes  []string
	recipes    map[string]Recipe
	recipeIDs  []string
	machines   map[string]Machine
	machineIDs []string
	techs      []Technology
	icons      map[string]string
}

// Load fetches both documents from src and builds the full index. On any
// fetch or parse failure it returns a nil index; callers must not query an
// index that failed to load.
func Load(ctx context.Context, src Source) (*Index, error) {
	raw, err := src.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	iconRaw, err := src.IconMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load icon map: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	icons := map[string]string{}
	if err := json.Unmarshal(iconRaw, &icons); err != nil {
		return nil, fmt.Errorf("parse icon map: %w", err)
	}

	idx := &Index{
		items:    map[string]Item{},
		recipes:  map[string]Recipe{},
		machines: map[string]Machine{},
		icons:    icons,
	}

	// Items: every recognized bucket flattens into one collection keyed by
	// id. A duplicate id across buckets is a data-quality problem in the
	// extract; the later bucket wins, but loudly.
	for _, bucket := range itemBuckets {
		for _, r := range bucketRecords(doc, bucket) {
			if r.Name == "" {
				continue
			}
			it := itemFromRecord(r, bucket)
			if prev, ok := idx.items[it.ID]; ok {
				log.Printf("index: item %q in bucket %q overwrites earlier %q entry", it.ID, bucket, prev.Type)
			} else {
				idx.itemOrder = append(idx.itemOrder, it.ID)
			}
			idx.items[it.ID] = it
		}
	}

	// Type tags come from the surviving entries; a bucket whose every record
	// was overwritten leaves no tag behind.
	typeSet := map[string]bool{"item": true}
	for _, it := range idx.items {
		typeSet[it.Type] = true
	}
	for t := range typeSet {
		idx.itemTypes = append(idx.itemTypes, t)
	}
	sort.Strings(idx.itemTypes)

	for _, bucket := range machineBuckets {
		for _, r := range bucketRecords(doc, bucket) {
			if r.Name == "" {
				continue
			}
			m := machineFromRecord(r, bucket)
			if _, ok := idx.machines[m.ID]; !ok {
				idx.machineIDs = append(idx.machineIDs, m.ID)
			}
			idx.machines[m.ID] = m
		}
	}

	for _, r := range bucketRecords(doc, "recipe") {
		if r.Name == "" {
			continue
		}
		rec := recipeFromRecord(r)
		rec.CraftedBy = idx.resolveCrafter(rec.Category)
		if _, ok := idx.recipes[rec.ID]; !ok {
			idx.recipeIDs = append(idx.recipeIDs, rec.ID)
		}
		idx.recipes[rec.ID] = rec
	}

	for _, r := range bucketRecords(doc, "technology") {
		if r.Name == "" {
			continue
		}
		idx.techs = append(idx.techs, technologyFromRecord(r))
	}

	return idx, nil
}

func bucketRecords(doc map[string]json.RawMessage, bucket string) []record {
	var out []record
	for _, raw := range unwrapList(doc[bucket]) {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// resolveCrafter finds the machine for a recipe category: the first machine
// in declaration order that lists the category, otherwise a synthesized
// category placeholder with no backing entity.
func (idx *Index) resolveCrafter(category string) EntityRef {
	for _, id := range idx.machineIDs {
		m := idx.machines[id]
		if m.CraftsCategory(category) {
			return EntityRef{ID: m.ID, Name: m.DisplayName, Kind: refEntity}
		}
	}
	return EntityRef{ID: category, Name: categoryFallbackName(category), Kind: refCategory}
}

// Item returns the item with the given id.
func (idx *Index) Item(id string) (Item, bool) {
	it, ok := idx.items[id]
	return it, ok
}

// Recipe returns the recipe with the given id.
func (idx *Index) Recipe(id string) (Recipe, bool) {
	r, ok := idx.recipes[id]
	return r, ok
}

// Machine returns the crafting entity with the given id.
func (idx *Index) Machine(id string) (Machine, bool) {
	m, ok := idx.machines[id]
	return m, ok
}

// Icon returns the icon filename mapped to an item or machine id. A missing
// entry is an expected state, not an error: callers render a placeholder.
func (idx *Index) Icon(id string) (string, bool) {
	f, ok := idx.icons[id]
	return f, ok
}

// RecipesThatMake returns every recipe with a result named itemID, in
// declaration order. Linear scan: the dataset is hundreds of recipes, so a
// true reverse index (item id -> recipe id set) is not worth carrying; that
// is the first thing to change if the dataset ever grows by orders of
// magnitude.
func (idx *Index) RecipesThatMake(itemID string) []Recipe {
	var out []Recipe
	for _, id := range idx.recipeIDs {
		r := idx.recipes[id]
		for _, res := range r.Results {
			if res.Name == itemID {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// RecipesThatUse returns every recipe with an ingredient named itemID, in
// declaration order.
func (idx *Index) RecipesThatUse(itemID string) []Recipe {
	var out []Recipe
	for _, id := range idx.recipeIDs {
		r := idx.recipes[id]
		for _, ing := range r.Ingredients {
			if ing.Name == itemID {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// RecipesCraftableBy returns every recipe whose category is in the machine's
// category set, in declaration order. Empty for an unknown machine id or a
// machine with no categories.
func (idx *Index) RecipesCraftableBy(machineID string) []Recipe {
	m, ok := idx.machines[machineID]
	if !ok || len(m.Categories) == 0 {
		return nil
	}
	var out []Recipe
	for _, id := range idx.recipeIDs {
		r := idx.recipes[id]
		if m.CraftsCategory(r.Category) {
			out = append(out, r)
		}
	}
	return out
}

// TechnologyThatUnlocks returns the first technology in declaration order
// with an unlock-recipe effect whose recipe produces itemID. Later
// technologies unlocking the same item are intentionally ignored.
func (idx *Index) TechnologyThatUnlocks(itemID string) (Technology, bool) {
	for _, t := range idx.techs {
		for _, recipeID := range t.Unlocks {
			r, ok := idx.recipes[recipeID]
			if !ok {
				continue
			}
			for _, res := range r.Results {
				if res.Name == itemID {
					return t, true
				}
			}
		}
	}
	return Technology{}, false
}

// ItemTypes returns the sorted set of type tags present in the item
// collection; "item" is always included.
func (idx *Index) ItemTypes() []string {
	out := make([]string, len(idx.itemTypes))
	copy(out, idx.itemTypes)
	return out
}

// SearchItems returns items whose display name or id contains the query
// case-insensitively, optionally restricted to one type tag. Order follows
// declaration order; callers wanting another order sort the result.
func (idx *Index) SearchItems(query, typeFilter string) []Item {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []Item
	for _, id := range idx.itemOrder {
		it := idx.items[id]
		if typeFilter != "" && it.Type != typeFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(it.DisplayName), needle) &&
			!strings.Contains(strings.ToLower(it.ID), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Items returns the full item collection in declaration order.
func (idx *Index) Items() []Item {
	return idx.SearchItems("", "")
}

// Machines returns the crafting entity collection in declaration order.
func (idx *Index) Machines() []Machine {
	out := make([]Machine, 0, len(idx.machineIDs))
	for _, id := range idx.machineIDs {
		out = append(out, idx.machines[id])
	}
	return out
}

// Recipes returns the recipe collection in declaration order.
func (idx *Index) Recipes() []Recipe {
	out := make([]Recipe, 0, len(idx.recipeIDs))
	for _, id := range idx.recipeIDs {
		out = append(out, idx.recipes[id])
	}
	return out
}

// Len reports collection sizes for startup logging.
func (idx *Index) Len() (items, recipes, machines, techs int) {
	return len(idx.items), len(idx.recipes), len(idx.machines), len(idx.techs)
}
