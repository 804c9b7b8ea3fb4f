package engine

import "errors"

var (
	ErrDuplicateRecipeKey       = errors.New("duplicate recipe key")
	ErrInvalidResourceReference = errors.New("invalid resource reference")
	ErrInvalidRecipe            = errors.New("invalid recipe")
	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrMissingPrerequisites     = errors.New("missing prerequisites")
	ErrMissingIngredients       = errors.New("missing ingredients")
)
