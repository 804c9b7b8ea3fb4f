package engine

import (
	"fmt"
	"math"

	"github.com/napolitain/idlecore/internal/models"
)

// Tolerance absorbs floating point drift in sufficiency checks
const Tolerance = 1e-10

func floatGE(a, b float64) bool {
	return a >= b-Tolerance
}

// Engine owns the resources, recipes and inventory of one simulation.
// It is not safe for concurrent use.
type Engine struct {
	resources *models.Registry
	recipes   map[string]models.Recipe
	keys      []string // registration order
	inventory models.Inventory
	time      int64
}

// New creates an engine with an empty inventory sized for resources
func New(resources *models.Registry) *Engine {
	return &Engine{
		resources: resources,
		recipes:   make(map[string]models.Recipe),
		inventory: models.EmptyInventory(resources),
	}
}

// Resources returns the registry the engine was built from
func (e *Engine) Resources() *models.Registry {
	return e.resources
}

// Time returns the number of successful steps so far
func (e *Engine) Time() int64 {
	return e.time
}

// Inventory returns a copy of the current inventory
func (e *Engine) Inventory() models.Inventory {
	return e.inventory.Clone()
}

// Amount returns the current quantity of h
func (e *Engine) Amount(h models.Handle) float64 {
	return e.inventory.Amount(h)
}

// SetAmount overwrites the quantity of h
func (e *Engine) SetAmount(h models.Handle, amount float64) error {
	if !e.validHandle(h) {
		return fmt.Errorf("%w: %s", ErrInvalidResourceReference, h)
	}
	e.inventory.Set(h, amount)
	return nil
}

// Register validates recipe and stores a copy of it under key
func (e *Engine) Register(key string, recipe models.Recipe) error {
	if _, exists := e.recipes[key]; exists {
		return fmt.Errorf("recipe %q: %w", key, ErrDuplicateRecipeKey)
	}
	for _, h := range recipe.Handles() {
		if !e.validHandle(h) {
			return fmt.Errorf("recipe %q references %s: %w", key, h, ErrInvalidResourceReference)
		}
	}
	if recipe.Ticks < 1 {
		return fmt.Errorf("recipe %q: ticks must be at least 1, got %d: %w", key, recipe.Ticks, ErrInvalidRecipe)
	}
	for _, m := range []map[models.Handle]float64{recipe.Ingredients, recipe.Outputs, recipe.Requires} {
		for h, amount := range m {
			if !(amount > 0) || math.IsInf(amount, 0) {
				return fmt.Errorf("recipe %q: amount %v for %s: %w", key, amount, h, ErrInvalidRecipe)
			}
		}
	}

	e.recipes[key] = recipe.Clone()
	e.keys = append(e.keys, key)
	return nil
}

// Recipe returns a copy of the recipe stored under key
func (e *Engine) Recipe(key string) (models.Recipe, bool) {
	r, ok := e.recipes[key]
	if !ok {
		return models.Recipe{}, false
	}
	return r.Clone(), true
}

// Keys returns the registered recipe keys in registration order
func (e *Engine) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Check reports whether Step(key) would succeed, without changing state
func (e *Engine) Check(key string) error {
	_, err := e.ready(key)
	return err
}

// Step applies one tick of the recipe stored under key.
// On error the inventory and time are left unchanged.
func (e *Engine) Step(key string) error {
	recipe, err := e.ready(key)
	if err != nil {
		return err
	}

	next := e.inventory.Clone()
	for h, amount := range recipe.Ingredients {
		next.Add(h, -recipe.PerTick(amount))
	}
	for h, amount := range recipe.Outputs {
		next.Add(h, recipe.PerTick(amount))
	}
	e.inventory = next

	e.time++
	return nil
}

// Run steps key up to n times and stops at the first failure.
// It returns the number of successful steps.
func (e *Engine) Run(key string, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := e.Step(key); err != nil {
			return i, err
		}
	}
	return n, nil
}

func (e *Engine) ready(key string) (models.Recipe, error) {
	recipe, ok := e.recipes[key]
	if !ok {
		return models.Recipe{}, fmt.Errorf("recipe %q: %w", key, ErrRecipeNotFound)
	}

	for _, h := range models.SortedHandles(recipe.Requires) {
		if !floatGE(e.inventory.Amount(h), recipe.Requires[h]) {
			return models.Recipe{}, fmt.Errorf("recipe %q: %w", key, ErrMissingPrerequisites)
		}
	}

	for _, h := range models.SortedHandles(recipe.Ingredients) {
		if !floatGE(e.inventory.Amount(h), recipe.PerTick(recipe.Ingredients[h])) {
			return models.Recipe{}, fmt.Errorf("recipe %q: %w", key, ErrMissingIngredients)
		}
	}

	return recipe, nil
}

// The inventory is sized at construction, so both bounds must hold.
func (e *Engine) validHandle(h models.Handle) bool {
	return e.resources.HasHandle(h) && h.Index() < e.inventory.Len()
}
