package view

import (
	"github.com/BobbyLangan/ultracube-factoriopedia/internal/index"
)

// StackView is one rendered ingredient or result line: amount, resolved
// display name and a link back to the item's own detail page.
type StackView struct {
	Amount      float64 `json:"amount"`
	DisplayName string  `json:"display_name"`
	Icon        string  `json:"icon,omitempty"`
	Placeholder bool    `json:"placeholder"`
	Link        string  `json:"link"`
}

// EntityBadge names the machine (or category placeholder) that crafts a
// recipe.
type EntityBadge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Placeholder bool   `json:"placeholder"`
}

// RecipeCard is one recipe rendered on a detail page.
type RecipeCard struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	// Entity is nil when the badge is suppressed (a machine's own
	// "can craft" list would repeat the machine on every card).
	Entity      *EntityBadge `json:"entity,omitempty"`
	Energy      float64      `json:"energy,omitempty"`
	HasEnergy   bool         `json:"has_energy"`
	Ingredients []StackView  `json:"ingredients"`
	Results     []StackView  `json:"results"`
}

// Detail is the composed detail page for one item.
type Detail struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Icon        string `json:"icon,omitempty"`
	Placeholder bool   `json:"placeholder"`
	// Technology is the display name of the unlocking research, empty when
	// nothing unlocks the item.
	Technology string       `json:"technology,omitempty"`
	HowToMake  []RecipeCard `json:"how_to_make"`
	UsedIn     []RecipeCard `json:"used_in"`
	// CanCraft is populated only when the item is itself a crafting entity.
	CanCraft []RecipeCard `json:"can_craft"`
}

// ComposeDetail resolves one item and composes its full detail page. The
// second return is false when the id is unknown; callers surface that as a
// terminal not-found state rather than a partial render.
func ComposeDetail(idx *index.Index, id string) (Detail, bool) {
	it, ok := idx.Item(id)
	if !ok {
		// A crafting entity may be addressable without being in any item
		// bucket; give it a minimal item identity so its page still works.
		m, mok := idx.Machine(id)
		if !mok {
			return Detail{}, false
		}
		it = index.Item{ID: m.ID, DisplayName: m.DisplayName, Type: m.Type}
	}

	icon, hasIcon := idx.Icon(it.ID)
	d := Detail{
		ID:          it.ID,
		DisplayName: it.DisplayName,
		Type:        it.Type,
		Icon:        icon,
		Placeholder: !hasIcon,
	}
	if tech, ok := idx.TechnologyThatUnlocks(it.ID); ok {
		d.Technology = tech.DisplayName
	}
	for _, r := range idx.RecipesThatMake(it.ID) {
		d.HowToMake = append(d.HowToMake, recipeCard(idx, r, true))
	}
	for _, r := range idx.RecipesThatUse(it.ID) {
		d.UsedIn = append(d.UsedIn, recipeCard(idx, r, true))
	}
	if _, ok := idx.Machine(it.ID); ok {
		for _, r := range idx.RecipesCraftableBy(it.ID) {
			d.CanCraft = append(d.CanCraft, recipeCard(idx, r, false))
		}
	}
	return d, true
}

func recipeCard(idx *index.Index, r index.Recipe, withBadge bool) RecipeCard {
	card := RecipeCard{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Energy:      r.Energy,
		HasEnergy:   r.HasEnergy,
		Ingredients: stackViews(idx, r.Ingredients),
		Results:     stackViews(idx, r.Results),
	}
	if withBadge {
		icon, ok := idx.Icon(r.CraftedBy.ID)
		card.Entity = &EntityBadge{
			ID:          r.CraftedBy.ID,
			Name:        r.CraftedBy.Name,
			Icon:        icon,
			Placeholder: !ok,
		}
	}
	return card
}

func stackViews(idx *index.Index, stacks []index.Stack) []StackView {
	out := make([]StackView, 0, len(stacks))
	for _, s := range stacks {
		v := StackView{
			Amount:      s.Amount,
			DisplayName: s.Name,
			Link:        s.Name,
		}
		// The dataset may reference ids that never made it into the item
		// collection; the raw id doubles as display text in that case.
		if it, ok := idx.Item(s.Name); ok {
			v.DisplayName = it.DisplayName
		}
		icon, ok := idx.Icon(s.Name)
		v.Icon = icon
		v.Placeholder = !ok
		out = append(out, v)
	}
	return out
}
