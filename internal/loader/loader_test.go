package loader

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/napolitain/idlecore/internal/engine"
	"github.com/napolitain/idlecore/internal/models"
)

func TestDefaultGame(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	wantResources := []string{"copper_ore", "copper_bars", "copper_pickaxes"}
	got := cfg.Registry.Names()
	if strings.Join(got, ",") != strings.Join(wantResources, ",") {
		t.Errorf("resources = %v, want %v", got, wantResources)
	}

	wantKeys := []string{"make_pickaxes", "mine_ore", "smelt_bars"}
	if len(cfg.Recipes) != len(wantKeys) {
		t.Fatalf("got %d recipes, want %d", len(cfg.Recipes), len(wantKeys))
	}
	for i, key := range wantKeys {
		if cfg.Recipes[i].Key != key {
			t.Errorf("Recipes[%d].Key = %q, want %q", i, cfg.Recipes[i].Key, key)
		}
	}

	smelt, ok := cfg.Entry("smelt_bars")
	if !ok {
		t.Fatal("smelt_bars missing")
	}
	if smelt.DisplayName != "Smelt copper bars" || smelt.Recipe.Ticks != 3 {
		t.Errorf("smelt_bars = %+v", smelt)
	}

	if _, err := cfg.NewEngine(); err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
}

func TestFormatsAgree(t *testing.T) {
	paths := []string{"testdata/forge.toml", "testdata/forge.yaml", "testdata/forge.json"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			checkForge(t, cfg)
		})
	}
}

func checkForge(t *testing.T, cfg *Config) {
	t.Helper()
	reg := cfg.Registry
	ore, _ := reg.Handle("ore")
	bar, _ := reg.Handle("bar")
	furnace, _ := reg.Handle("furnace")

	if reg.Len() != 3 || ore.Index() != 0 || furnace.Index() != 2 {
		t.Fatalf("unexpected registry: %v", reg.Names())
	}

	mine, ok := cfg.Entry("mine")
	if !ok {
		t.Fatal("mine missing")
	}
	if mine.DisplayName != "mine" {
		t.Errorf("mine display name = %q, want key fallback", mine.DisplayName)
	}
	if mine.Recipe.Ticks != 4 || mine.Recipe.Outputs[ore] != 1 {
		t.Errorf("mine = %+v", mine.Recipe)
	}

	smelt, _ := cfg.Entry("smelt")
	if smelt.Recipe.Ingredients[ore] != 1 || smelt.Recipe.Outputs[bar] != 1 || smelt.Recipe.Requires[furnace] != 1 {
		t.Errorf("smelt = %+v", smelt.Recipe)
	}

	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.Amount(ore) != 1 || e.Amount(furnace) != 1 {
		t.Errorf("initial amounts not applied: %v", e.Inventory().Amounts())
	}
	if err := e.Step("smelt"); err != nil {
		t.Fatalf("Step(smelt): %v", err)
	}
	if e.Amount(bar) != 0.5 || e.Amount(furnace) != 1 {
		t.Errorf("after smelt: %v", e.Inventory().Amounts())
	}
}

func TestUnknownResource(t *testing.T) {
	_, err := Load("testdata/typo.toml")
	if !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("got %v, want ErrUnknownResource", err)
	}
	if !strings.Contains(err.Error(), `did you mean "copper_ore"`) {
		t.Errorf("error lacks suggestion: %v", err)
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{
			name: "duplicate resource",
			doc:  Document{Resources: []string{"ore", "ore"}},
			want: ErrDuplicateResource,
		},
		{
			name: "empty resource",
			doc:  Document{Resources: []string{"ore", " "}},
			want: ErrEmptyResourceName,
		},
		{
			name: "unknown output",
			doc: Document{
				Resources: []string{"ore"},
				Recipes:   map[string]RecipeDocument{"x": {Outputs: map[string]float64{"gold": 1}, Ticks: 1}},
			},
			want: ErrUnknownResource,
		},
		{
			name: "unknown requirement",
			doc: Document{
				Resources: []string{"ore"},
				Recipes:   map[string]RecipeDocument{"x": {Requires: map[string]float64{"anvil": 1}, Ticks: 1}},
			},
			want: ErrUnknownResource,
		},
		{
			name: "unknown initial",
			doc: Document{
				Resources: []string{"ore"},
				Initial:   map[string]float64{"gold": 1},
			},
			want: ErrUnknownResource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(&tt.doc); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewEngineRejectsBadTicks(t *testing.T) {
	cfg, err := Convert(&Document{
		Resources: []string{"ore"},
		Recipes:   map[string]RecipeDocument{"mine": {Outputs: map[string]float64{"ore": 1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.NewEngine(); !errors.Is(err, engine.ErrInvalidRecipe) {
		t.Errorf("got %v, want ErrInvalidRecipe", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{TOML, "resources = [\"ore\"]\ncolour = \"red\"\n"},
		{YAML, "resources: [ore]\ncolour: red\n"},
		{JSON, `{"resources": ["ore"], "colour": "red"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Error("expected error for unknown key")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.toml": TOML,
		"a.YAML": YAML,
		"b.yml":  YAML,
		"c.json": JSON,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("game.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"copper_ore", "copper_bars", "iron"}
	tests := []struct {
		word, want string
	}{
		{"coper_ore", "copper_ore"},
		{"copper_bar", "copper_bars"},
		{"irn", "iron"},
		{"diamond", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.word, candidates); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	for _, key := range []string{"resources", "initial", "recipes"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
}

func TestEntryMissing(t *testing.T) {
	cfg := &Config{Registry: models.NewRegistry()}
	if _, ok := cfg.Entry("nope"); ok {
		t.Error("Entry on empty config should fail")
	}
}

func TestExampleGames(t *testing.T) {
	for _, path := range []string{"../../examples/foundry.yaml", "../../examples/copper.json"} {
		t.Run(path, func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if _, err := cfg.NewEngine(); err != nil {
				t.Fatalf("NewEngine: %v", err)
			}
		})
	}
}

func TestFoundryProgression(t *testing.T) {
	cfg, err := Load("../../examples/foundry.yaml")
	if err != nil {
		t.Fatal(err)
	}
	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Step("smelt"); !errors.Is(err, engine.ErrMissingPrerequisites) {
		t.Fatalf("smelt without furnace: got %v", err)
	}

	plan := []struct {
		key   string
		times int
	}{
		{"quarry", 8},
		{"build_furnace", 4},
		{"mine_ore", 4},
		{"dig_coal", 3},
		{"smelt", 4},
	}
	for _, p := range plan {
		if n, err := e.Run(p.key, p.times); err != nil {
			t.Fatalf("%s: %d/%d steps: %v", p.key, n, p.times, err)
		}
	}

	furnace, _ := cfg.Registry.Handle("furnace")
	ingots, _ := cfg.Registry.Handle("iron_ingots")
	if e.Amount(furnace) < 1-engine.Tolerance {
		t.Errorf("furnace = %v, want 1", e.Amount(furnace))
	}
	if diff := e.Amount(ingots) - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("iron_ingots = %v, want 1", e.Amount(ingots))
	}
	if e.Time() != 23 {
		t.Errorf("time = %d, want 23", e.Time())
	}
}
