package index

// Item is any craftable or usable good tracked by id: solid items, fluids,
// science packs, armor, modules, capsules, repair tools and rail planners all
// flatten into the one item collection.
type Item struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// Stack is one ingredient or result of a recipe.
type Stack struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// EntityRef points a recipe at the thing that crafts it. Kind "entity" means
// ID names a real machine in the index; kind "category" is a synthesized
// placeholder used when no machine declares the recipe's category.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

const (
	refEntity   = "entity"
	refCategory = "category"
)

// Recipe is a transformation consuming Ingredients and producing Results.
type Recipe struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Category    string  `json:"category"`
	Ingredients []Stack `json:"ingredients"`
	Results     []Stack `json:"results"`
	// Energy is the crafting time in seconds; HasEnergy is false when the
	// source record carries no energy_required field.
	Energy    float64   `json:"energy,omitempty"`
	HasEnergy bool      `json:"-"`
	CraftedBy EntityRef `json:"crafted_by"`
}

// Machine is a crafting entity: an assembling machine, furnace, mining drill
// or lab, with the set of recipe categories it can execute.
type Machine struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"`
	Categories  []string `json:"categories"`
}

// CraftsCategory reports whether the machine can execute recipes of the
// given category.
func (m Machine) CraftsCategory(category string) bool {
	for _, c := range m.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Technology is a research node. Unlocks lists the recipe ids of its
// unlock-recipe effects in declaration order; other effect kinds are dropped
// during normalization.
type Technology struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Unlocks     []string `json:"unlocks"`
}
