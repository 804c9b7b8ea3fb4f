package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlecore/internal/driver"
	"github.com/napolitain/idlecore/internal/loader"
	"github.com/napolitain/idlecore/internal/models"
)

var (
	configFile string
	verbose    bool
	noColor    bool

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "idle"})
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Turn-based production idle game",
		Long: `Mine, smelt and craft one tick at a time. Recipes convert resources
over a fixed number of ticks; the game is defined by a TOML, YAML or JSON file.`,
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRun: setup,
		RunE:             runPlay,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to game definition (built-in copper game if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "play",
			Short: "Play interactively (default)",
			Args:  cobra.NoArgs,
			RunE:  runPlay,
		},
		&cobra.Command{
			Use:   "recipes",
			Short: "List recipes and whether they can run now",
			Args:  cobra.NoArgs,
			RunE:  runRecipes,
		},
		&cobra.Command{
			Use:   "run KEY[:N]...",
			Short: "Apply recipe steps non-interactively",
			Long: `Apply each KEY N times (default 1), in order, then print the inventory.
Stops at the first rejected step and exits non-zero.`,
			Args: cobra.MinimumNArgs(1),
			RunE: runSteps,
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the JSON Schema of the game definition file",
			Args:  cobra.NoArgs,
			RunE:  runSchema,
		},
	)

	return rootCmd
}

func setup(cmd *cobra.Command, args []string) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if noColor {
		color.NoColor = true
	}
}

func loadConfig() (*loader.Config, error) {
	if configFile == "" {
		logger.Debug("using built-in copper game")
		return loader.Default()
	}
	cfg, err := loader.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded game", "path", configFile, "resources", cfg.Registry.Len(), "recipes", len(cfg.Recipes))
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out)
	return driver.New(e, cfg.Recipes, cmd.InOrStdin(), out, logger).Run()
}

func printBanner(w io.Writer) {
	style := lipgloss.NewStyle().
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if !noColor {
		style = style.Foreground(lipgloss.Color("6")).BorderForeground(lipgloss.Color("6"))
	}
	fmt.Fprintln(w, style.Render("Idle Production Game"))
	fmt.Fprintln(w)
}

// formatAmounts renders a recipe map as "name=amount" pairs in handle order
func formatAmounts(reg *models.Registry, amounts map[models.Handle]float64) string {
	parts := make([]string, 0, len(amounts))
	for _, h := range models.SortedHandles(amounts) {
		name, err := reg.NameOf(h)
		if err != nil {
			name = h.String()
		}
		parts = append(parts, fmt.Sprintf("%s=%g", name, amounts[h]))
	}
	return strings.Join(parts, " ")
}
