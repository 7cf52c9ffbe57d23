package index

import (
	"encoding/json"
	"strings"
)

// The offline extractor represents Lua array-tables as an object with the
// payload under the "_array_items" marker key. Relation fields therefore
// arrive either as a plain JSON array or as {"_array_items": [...]}; both
// are accepted and anything else normalizes to an empty sequence.
type wrappedList struct {
	Items []json.RawMessage `json:"_array_items"`
}

// unwrapList returns the elements of a dual-form relation field.
func unwrapList(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var plain []json.RawMessage
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var wrapped wrappedList
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Items
	}
	return nil
}

// record is the superset of raw fields the index reads off any prototype
// bucket entry. Everything else in the extract is presentation data the
// index has no use for and does not carry.
type record struct {
	Name               string          `json:"name"`
	CleanedName        string          `json:"cleaned_name"`
	Category           string          `json:"category"`
	EnergyRequired     *float64        `json:"energy_required"`
	Ingredients        json.RawMessage `json:"ingredients"`
	Results            json.RawMessage `json:"results"`
	CraftingCategories json.RawMessage `json:"crafting_categories"`
	Effects            json.RawMessage `json:"effects"`
}

// displayName prefers the extractor's cleaned_name and falls back to the raw
// id. Further cleaning is the extractor's job, never done here.
func (r record) displayName() string {
	if r.CleanedName != "" {
		return r.CleanedName
	}
	return r.Name
}

// stackRecord covers the usual {name, amount} element shape.
type stackRecord struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

// decodeStack normalizes one ingredient/result element. Besides the object
// form, the extractor emits Lua positional pairs {"iron-plate", 2} as
// {"_array_items": ["iron-plate", 2]}; both spellings land here. Amount
// defaults to 1 when missing.
func decodeStack(raw json.RawMessage) (Stack, bool) {
	var sr stackRecord
	if err := json.Unmarshal(raw, &sr); err == nil && sr.Name != "" {
		s := Stack{Name: sr.Name, Amount: 1}
		if sr.Amount != nil {
			s.Amount = *sr.Amount
		}
		return s, true
	}
	// Positional pair: first element name, optional second element amount.
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		var wrapped wrappedList
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return Stack{}, false
		}
		pair = wrapped.Items
	}
	if len(pair) == 0 {
		return Stack{}, false
	}
	var name string
	if err := json.Unmarshal(pair[0], &name); err != nil || name == "" {
		return Stack{}, false
	}
	s := Stack{Name: name, Amount: 1}
	if len(pair) > 1 {
		var amount float64
		if err := json.Unmarshal(pair[1], &amount); err == nil {
			s.Amount = amount
		}
	}
	return s, true
}

func decodeStacks(raw json.RawMessage) []Stack {
	elems := unwrapList(raw)
	out := make([]Stack, 0, len(elems))
	for _, e := range elems {
		if s, ok := decodeStack(e); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeStrings(raw json.RawMessage) []string {
	elems := unwrapList(raw)
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

type effectRecord struct {
	Type   string `json:"type"`
	Recipe string `json:"recipe"`
}

func decodeUnlocks(raw json.RawMessage) []string {
	var out []string
	for _, e := range unwrapList(raw) {
		var ef effectRecord
		if err := json.Unmarshal(e, &ef); err != nil {
			continue
		}
		if ef.Type == "unlock-recipe" && ef.Recipe != "" {
			out = append(out, ef.Recipe)
		}
	}
	return out
}

func itemFromRecord(r record, bucket string) Item {
	return Item{ID: r.Name, DisplayName: r.displayName(), Type: bucket}
}

func machineFromRecord(r record, bucket string) Machine {
	return Machine{
		ID:          r.Name,
		DisplayName: r.displayName(),
		Type:        bucket,
		Categories:  decodeStrings(r.CraftingCategories),
	}
}

func technologyFromRecord(r record) Technology {
	return Technology{
		ID:          r.Name,
		DisplayName: r.displayName(),
		Unlocks:     decodeUnlocks(r.Effects),
	}
}

// recipeFromRecord normalizes everything except the CraftedBy reference,
// which needs the machine collection and is resolved by the loader.
func recipeFromRecord(r record) Recipe {
	rec := Recipe{
		ID:          r.Name,
		DisplayName: r.displayName(),
		Category:    r.Category,
		Ingredients: decodeStacks(r.Ingredients),
		Results:     decodeStacks(r.Results),
	}
	if r.EnergyRequired != nil {
		rec.Energy = *r.EnergyRequired
		rec.HasEnergy = true
	}
	return rec
}

// Human names for well-known categories with no machine in the dataset.
var categoryNames = map[string]string{
	"crafting":        "Assembling Machine",
	"smelting":        "Furnace",
	"chemistry":       "Chemical Plant",
	"oil-processing":  "Oil Refinery",
	"rocket-building": "Rocket Silo",
}

// categoryFallbackName resolves an unmatched recipe category to a display
// name: the static table first, otherwise the category title-cased with
// dashes turned into spaces ("widget-forging" -> "Widget Forging").
func categoryFallbackName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	words := strings.Split(category, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
