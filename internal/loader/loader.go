package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/idlecore/internal/engine"
	"github.com/napolitain/idlecore/internal/models"
)

//go:embed defaults/copper.toml
var defaults embed.FS

var (
	ErrUnknownResource   = models.ErrUnknownResource
	ErrDuplicateResource = errors.New("duplicate resource")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrEmptyResourceName = errors.New("empty resource name")
)

// Format identifies the encoding of a config document
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Document represents the declarative game definition
type Document struct {
	Resources []string                  `toml:"resources" yaml:"resources" json:"resources" jsonschema:"required,minItems=1,description=Resource names; list order fixes handle order"`
	Initial   map[string]float64        `toml:"initial" yaml:"initial" json:"initial,omitempty" jsonschema:"description=Starting amounts by resource name"`
	Recipes   map[string]RecipeDocument `toml:"recipes" yaml:"recipes" json:"recipes" jsonschema:"required,description=Recipes by key"`
}

// RecipeDocument represents one recipe in a Document
type RecipeDocument struct {
	Name        string             `toml:"name" yaml:"name" json:"name" jsonschema:"description=Display name shown in menus"`
	Ingredients map[string]float64 `toml:"ingredients" yaml:"ingredients" json:"ingredients,omitempty" jsonschema:"description=Consumed over the recipe's ticks"`
	Outputs     map[string]float64 `toml:"outputs" yaml:"outputs" json:"outputs,omitempty" jsonschema:"description=Produced over the recipe's ticks"`
	Requires    map[string]float64 `toml:"requires" yaml:"requires" json:"requires,omitempty" jsonschema:"description=Must be held in full and are never consumed"`
	Ticks       int                `toml:"ticks" yaml:"ticks" json:"ticks" jsonschema:"required,minimum=1"`
}

// Entry is a recipe ready to register, with its menu name
type Entry struct {
	DisplayName string
	Key         string
	Recipe      models.Recipe
}

// Config is a loaded game definition
type Config struct {
	Registry *models.Registry
	Recipes  []Entry
	Initial  map[models.Handle]float64
}

// Load reads and converts the config file at path
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Default loads the built-in copper game
func Default() (*Config, error) {
	data, err := defaults.ReadFile("defaults/copper.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in game: %w", err)
	}
	return Parse(data, TOML)
}

// Parse decodes data in the given format and converts it
func Parse(data []byte, format Format) (*Config, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Convert(doc)
}

// Decode decodes a Document without resolving resource names.
// Unknown keys are rejected in every format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse toml: unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &doc, nil
}

// Convert resolves resource names in doc against a fresh registry
func Convert(doc *Document) (*Config, error) {
	registry := models.NewRegistry()
	for _, name := range doc.Resources {
		if strings.TrimSpace(name) == "" {
			return nil, ErrEmptyResourceName
		}
		if registry.HasName(name) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateResource, name)
		}
		registry.CreateResource(name)
	}

	initial, err := convertAmounts(doc.Initial, registry)
	if err != nil {
		return nil, fmt.Errorf("initial: %w", err)
	}

	keys := make([]string, 0, len(doc.Recipes))
	for key := range doc.Recipes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	recipes := make([]Entry, 0, len(keys))
	for _, key := range keys {
		rd := doc.Recipes[key]
		recipe := models.Recipe{Ticks: rd.Ticks}
		if recipe.Ingredients, err = convertAmounts(rd.Ingredients, registry); err != nil {
			return nil, fmt.Errorf("recipe %q ingredients: %w", key, err)
		}
		if recipe.Outputs, err = convertAmounts(rd.Outputs, registry); err != nil {
			return nil, fmt.Errorf("recipe %q outputs: %w", key, err)
		}
		if recipe.Requires, err = convertAmounts(rd.Requires, registry); err != nil {
			return nil, fmt.Errorf("recipe %q requires: %w", key, err)
		}

		name := rd.Name
		if name == "" {
			name = key
		}
		recipes = append(recipes, Entry{DisplayName: name, Key: key, Recipe: recipe})
	}

	return &Config{Registry: registry, Recipes: recipes, Initial: initial}, nil
}

// NewEngine creates an engine, registers every recipe and applies initial amounts
func (c *Config) NewEngine() (*engine.Engine, error) {
	e := engine.New(c.Registry)
	for _, entry := range c.Recipes {
		if err := e.Register(entry.Key, entry.Recipe); err != nil {
			return nil, err
		}
	}
	for _, h := range models.SortedHandles(c.Initial) {
		if err := e.SetAmount(h, c.Initial[h]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Entry returns the recipe entry registered under key
func (c *Config) Entry(key string) (Entry, bool) {
	for _, entry := range c.Recipes {
		if entry.Key == key {
			return entry, true
		}
	}
	return Entry{}, false
}

func convertAmounts(named map[string]float64, registry *models.Registry) (map[models.Handle]float64, error) {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[models.Handle]float64, len(named))
	for _, name := range names {
		amount := named[name]
		h, err := registry.Handle(name)
		if err != nil {
			if hint := Suggest(name, registry.Names()); hint != "" {
				return nil, fmt.Errorf("%w (did you mean %q?)", err, hint)
			}
			return nil, err
		}
		out[h] = amount
	}
	return out, nil
}

// Suggest returns the closest candidate to word, or "" when nothing is near
func Suggest(word string, candidates []string) string {
	best := ""
	bestDist := levenshteinLimit(len(word)) + 1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(word, cand)
		if dist < bestDist || (dist == bestDist && cand < best) {
			best = cand
			bestDist = dist
		}
	}
	if bestDist > levenshteinLimit(len(word)) {
		return ""
	}
	return best
}

func levenshteinLimit(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
