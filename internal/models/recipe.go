package models

import "sort"

// Recipe converts ingredients into outputs over Ticks steps.
// Requires amounts gate each step and are never consumed.
type Recipe struct {
	Ingredients map[Handle]float64
	Outputs     map[Handle]float64
	Requires    map[Handle]float64
	Ticks       int
}

// NewRecipe creates a recipe with empty resource maps
func NewRecipe(ticks int) Recipe {
	return Recipe{
		Ingredients: make(map[Handle]float64),
		Outputs:     make(map[Handle]float64),
		Requires:    make(map[Handle]float64),
		Ticks:       ticks,
	}
}

// Clone returns a deep copy; nil maps become empty maps
func (r Recipe) Clone() Recipe {
	return Recipe{
		Ingredients: cloneAmounts(r.Ingredients),
		Outputs:     cloneAmounts(r.Outputs),
		Requires:    cloneAmounts(r.Requires),
		Ticks:       r.Ticks,
	}
}

// Handles returns every handle referenced by the recipe, sorted and deduplicated
func (r Recipe) Handles() []Handle {
	seen := make(map[Handle]bool)
	var out []Handle
	for _, m := range []map[Handle]float64{r.Ingredients, r.Outputs, r.Requires} {
		for h := range m {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].index < out[j].index
	})
	return out
}

// PerTick returns amount spread evenly over the recipe's ticks
func (r Recipe) PerTick(amount float64) float64 {
	return amount / float64(r.Ticks)
}

// SortedHandles returns the keys of m in handle order
func SortedHandles(m map[Handle]float64) []Handle {
	out := make([]Handle, 0, len(m))
	for h := range m {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].index < out[j].index
	})
	return out
}

func cloneAmounts(m map[Handle]float64) map[Handle]float64 {
	out := make(map[Handle]float64, len(m))
	for h, v := range m {
		out[h] = v
	}
	return out
}
