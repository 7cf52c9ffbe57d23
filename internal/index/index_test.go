package index

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	dataset []byte
	icons   []byte
	err     error
}

func (s stubSource) Dataset(ctx context.Context) ([]byte, error) { return s.dataset, s.err }
func (s stubSource) IconMap(ctx context.Context) ([]byte, error) { return s.icons, s.err }

const fixtureDataset = `{
  "item": [
    {"name": "cube-basic-matter-unit"},
    {"name": "cube-fabricator", "cleaned_name": "Fabricator"},
    {"name": "iron-plate", "cleaned_name": "Iron Plate"},
    {"name": "iron-ore", "cleaned_name": "Iron Ore"}
  ],
  "fluid": {"_array_items": [
    {"name": "cube-molten-cube", "cleaned_name": "Molten Cube"}
  ]},
  "recipe": [
    {
      "name": "cube-basic-matter-unit",
      "cleaned_name": "Basic Matter Unit",
      "category": "cube-fabricator-handcraft",
      "energy_required": 2.5,
      "ingredients": {"_array_items": [{"name": "iron-plate", "amount": 2}]},
      "results": [{"name": "cube-basic-matter-unit", "amount": 1}]
    },
    {
      "name": "iron-plate",
      "cleaned_name": "Iron Plate",
      "category": "smelting",
      "ingredients": [{"_array_items": ["iron-ore", 1]}],
      "results": [{"name": "iron-plate"}]
    },
    {
      "name": "cube-molten-cube",
      "cleaned_name": "Molten Cube",
      "category": "widget-forging",
      "ingredients": "not-a-list",
      "results": [{"name": "cube-molten-cube", "amount": 10}]
    }
  ],
  "assembling-machine": [
    {
      "name": "cube-fabricator",
      "cleaned_name": "Fabricator",
      "crafting_categories": {"_array_items": ["cube-fabricator-handcraft", "crafting"]}
    }
  ],
  "lab": [
    {"name": "cube-lab", "cleaned_name": "Lab", "crafting_categories": []}
  ],
  "technology": [
    {
      "name": "cube-matter-tech",
      "cleaned_name": "Matter Tech",
      "effects": [
        {"type": "give-item", "item": "iron-plate"},
        {"type": "unlock-recipe", "recipe": "cube-basic-matter-unit"}
      ]
    },
    {
      "name": "cube-matter-tech-2",
      "cleaned_name": "Matter Tech 2",
      "effects": {"_array_items": [{"type": "unlock-recipe", "recipe": "cube-basic-matter-unit"}]}
    }
  ]
}`

const fixtureIcons = `{
  "iron-plate": "icons/iron-plate.png",
  "cube-fabricator": "icons/fabricator.png"
}`

func loadFixture(t *testing.T) *Index {
	t.Helper()
	idx, err := Load(context.Background(), stubSource{
		dataset: []byte(fixtureDataset),
		icons:   []byte(fixtureIcons),
	})
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return idx
}

func TestLoadFailurePropagates(t *testing.T) {
	_, err := Load(context.Background(), stubSource{err: errors.New("boom")})
	if err == nil {
		t.Fatal("expected error from failing source")
	}

	_, err = Load(context.Background(), stubSource{
		dataset: []byte("{not json"),
		icons:   []byte(`{}`),
	})
	if err == nil {
		t.Fatal("expected error for malformed dataset")
	}
}

func TestDisplayNameFallsBackToRawID(t *testing.T) {
	idx := loadFixture(t)
	it, ok := idx.Item("cube-basic-matter-unit")
	if !ok {
		t.Fatal("item not found")
	}
	if it.DisplayName != "cube-basic-matter-unit" {
		t.Fatalf("display name = %q, want raw id", it.DisplayName)
	}
	if it, _ := idx.Item("iron-plate"); it.DisplayName != "Iron Plate" {
		t.Fatalf("display name = %q, want cleaned name", it.DisplayName)
	}
}

func TestItemBucketsFlatten(t *testing.T) {
	idx := loadFixture(t)
	fluid, ok := idx.Item("cube-molten-cube")
	if !ok {
		t.Fatal("fluid missing from flattened item collection")
	}
	if fluid.Type != "fluid" {
		t.Fatalf("type = %q, want fluid", fluid.Type)
	}
	types := idx.ItemTypes()
	want := []string{"fluid", "item"}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}
}

func TestDuplicateItemIDLastBucketWins(t *testing.T) {
	idx, err := Load(context.Background(), stubSource{
		dataset: []byte(`{
  "item": [{"name": "cube-dup", "cleaned_name": "Dup Item"}],
  "fluid": [{"name": "cube-dup", "cleaned_name": "Dup Fluid"}],
  "science": [{"name": "cube-pack"}],
  "module": [{"name": "cube-pack", "cleaned_name": "Pack Module"}]
}`),
		icons: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	it, ok := idx.Item("cube-dup")
	if !ok {
		t.Fatal("item not found")
	}
	if it.Type != "fluid" || it.DisplayName != "Dup Fluid" {
		t.Fatalf("surviving entry = %+v, want the later fluid record", it)
	}
	if items, _, _, _ := idx.Len(); items != 2 {
		t.Fatalf("collection size = %d, want duplicates collapsed to 2", items)
	}

	// "science" lost its only record to "module", so it must not show up as
	// a type tag; "item" is always present.
	types := idx.ItemTypes()
	want := []string{"fluid", "item", "module"}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}
}

func TestDualFormNormalization(t *testing.T) {
	idx := loadFixture(t)

	// Wrapped ingredient list with object elements.
	r, _ := idx.Recipe("cube-basic-matter-unit")
	if len(r.Ingredients) != 1 || r.Ingredients[0].Name != "iron-plate" || r.Ingredients[0].Amount != 2 {
		t.Fatalf("ingredients = %+v", r.Ingredients)
	}
	if !r.HasEnergy || r.Energy != 2.5 {
		t.Fatalf("energy = %v (set=%v), want 2.5", r.Energy, r.HasEnergy)
	}

	// Positional pair element, amount defaulting.
	smelt, _ := idx.Recipe("iron-plate")
	if len(smelt.Ingredients) != 1 || smelt.Ingredients[0].Name != "iron-ore" || smelt.Ingredients[0].Amount != 1 {
		t.Fatalf("pair-form ingredients = %+v", smelt.Ingredients)
	}
	if len(smelt.Results) != 1 || smelt.Results[0].Amount != 1 {
		t.Fatalf("default amount = %+v", smelt.Results)
	}
	if smelt.HasEnergy {
		t.Fatal("energy should be absent")
	}

	// Neither recognized form normalizes to empty, not an error.
	molten, _ := idx.Recipe("cube-molten-cube")
	if len(molten.Ingredients) != 0 {
		t.Fatalf("malformed ingredients = %+v, want empty", molten.Ingredients)
	}
}

func TestCrafterResolution(t *testing.T) {
	idx := loadFixture(t)

	r, _ := idx.Recipe("cube-basic-matter-unit")
	if r.CraftedBy.Kind != "entity" || r.CraftedBy.ID != "cube-fabricator" || r.CraftedBy.Name != "Fabricator" {
		t.Fatalf("crafted by = %+v, want fabricator entity", r.CraftedBy)
	}

	// Known category with no machine: static table name.
	smelt, _ := idx.Recipe("iron-plate")
	if smelt.CraftedBy.Kind != "category" || smelt.CraftedBy.ID != "smelting" || smelt.CraftedBy.Name != "Furnace" {
		t.Fatalf("crafted by = %+v, want smelting/Furnace placeholder", smelt.CraftedBy)
	}

	// Unknown category: title-cased with dashes replaced.
	molten, _ := idx.Recipe("cube-molten-cube")
	if molten.CraftedBy.Name != "Widget Forging" {
		t.Fatalf("crafted by name = %q, want Widget Forging", molten.CraftedBy.Name)
	}
}

func TestRecipeLookupsAreBidirectional(t *testing.T) {
	idx := loadFixture(t)

	makes := idx.RecipesThatMake("cube-basic-matter-unit")
	if len(makes) != 1 || makes[0].ID != "cube-basic-matter-unit" {
		t.Fatalf("makes = %+v", makes)
	}
	uses := idx.RecipesThatUse("iron-plate")
	if len(uses) != 1 || uses[0].ID != "cube-basic-matter-unit" {
		t.Fatalf("uses = %+v", uses)
	}
	if got := idx.RecipesThatUse("cube-basic-matter-unit"); len(got) != 0 {
		t.Fatalf("unexpected consumers: %+v", got)
	}
}

func TestRecipesCraftableBy(t *testing.T) {
	idx := loadFixture(t)

	craftable := idx.RecipesCraftableBy("cube-fabricator")
	if len(craftable) != 1 || craftable[0].ID != "cube-basic-matter-unit" {
		t.Fatalf("craftable = %+v", craftable)
	}
	if got := idx.RecipesCraftableBy("cube-lab"); len(got) != 0 {
		t.Fatalf("machine with no categories should craft nothing, got %+v", got)
	}
	if got := idx.RecipesCraftableBy("no-such-machine"); len(got) != 0 {
		t.Fatalf("unknown machine should craft nothing, got %+v", got)
	}
}

func TestTechnologyThatUnlocksFirstMatchWins(t *testing.T) {
	idx := loadFixture(t)

	tech, ok := idx.TechnologyThatUnlocks("cube-basic-matter-unit")
	if !ok {
		t.Fatal("expected a technology")
	}
	if tech.ID != "cube-matter-tech" {
		t.Fatalf("tech = %q, want first declared match", tech.ID)
	}
	if _, ok := idx.TechnologyThatUnlocks("iron-plate"); ok {
		t.Fatal("iron-plate is not unlocked by any technology")
	}
}

func TestSearchItems(t *testing.T) {
	idx := loadFixture(t)

	all := idx.SearchItems("", "")
	items, _, _, _ := idx.Len()
	if len(all) != items {
		t.Fatalf("unfiltered search returned %d of %d items", len(all), items)
	}

	got := idx.SearchItems("cube", "fluid")
	if len(got) != 1 || got[0].ID != "cube-molten-cube" {
		t.Fatalf("search(cube, fluid) = %+v", got)
	}

	// Case-insensitive against display name and id.
	if got := idx.SearchItems("IRON PL", ""); len(got) != 1 || got[0].ID != "iron-plate" {
		t.Fatalf("case-insensitive search = %+v", got)
	}
	if got := idx.SearchItems("basic-matter", ""); len(got) != 1 {
		t.Fatalf("id substring search = %+v", got)
	}
}

func TestIconLookup(t *testing.T) {
	idx := loadFixture(t)

	if f, ok := idx.Icon("iron-plate"); !ok || f != "icons/iron-plate.png" {
		t.Fatalf("icon = %q ok=%v", f, ok)
	}
	if _, ok := idx.Icon("cube-basic-matter-unit"); ok {
		t.Fatal("expected missing icon mapping, not an error")
	}
}
