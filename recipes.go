package main

import "errors"

var (
	ErrUnknownRecipe      = errors.New("unknown recipe")
	ErrMissingIngredients = errors.New("missing ingredients")
)

// Ingredient is one line of a recipe
type Ingredient struct {
	Item  ItemType `json:"item"`
	Count int      `json:"count"`
}

// Recipe turns a set of ingredients into one item
type Recipe struct {
	ID          string       `json:"id"`
	Result      ItemType     `json:"result"`
	Ingredients []Ingredient `json:"ingredients"`
}

var recipes = []Recipe{
	{ID: "bandage", Result: ItemBandage, Ingredients: []Ingredient{{ItemCloth, 2}}},
	{ID: "wall", Result: ItemWall, Ingredients: []Ingredient{{ItemWood, 3}}},
	{ID: "spikes", Result: ItemSpikes, Ingredients: []Ingredient{{ItemWood, 4}}},
	{ID: "torch", Result: ItemTorch, Ingredients: []Ingredient{{ItemWood, 1}, {ItemCloth, 1}}},
	{ID: "landmine", Result: ItemLandmine, Ingredients: []Ingredient{{ItemGasoline, 1}, {ItemSpikes, 1}}},
}

// RecipeByID looks up a recipe by its wire identifier
func RecipeByID(id string) (Recipe, bool) {
	for _, r := range recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// Recipes returns the recipe book
func Recipes() []Recipe {
	out := make([]Recipe, len(recipes))
	copy(out, recipes)
	return out
}
