package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlecore/internal/engine"
	"github.com/napolitain/idlecore/internal/loader"
)

// stepGroup is one KEY[:N] argument of the run command
type stepGroup struct {
	Key   string
	Count int
}

func parseStepGroups(args []string) ([]stepGroup, error) {
	groups := make([]stepGroup, 0, len(args))
	for _, arg := range args {
		key, countStr, hasCount := strings.Cut(arg, ":")
		if key == "" {
			return nil, fmt.Errorf("invalid step %q: empty recipe key", arg)
		}
		count := 1
		if hasCount {
			n, err := strconv.Atoi(countStr)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid step %q: count must be a positive integer", arg)
			}
			count = n
		}
		groups = append(groups, stepGroup{Key: key, Count: count})
	}
	return groups, nil
}

func runRecipes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	return printRecipes(cmd.OutOrStdout(), cfg, e)
}

func printRecipes(w io.Writer, cfg *loader.Config, e *engine.Engine) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Key", "Name", "Ingredients", "Outputs", "Requires", "Ticks", "Ready"}),
	)

	reg := e.Resources()
	for i, entry := range cfg.Recipes {
		r := entry.Recipe
		ready := "yes"
		if err := e.Check(entry.Key); err != nil {
			ready = "no"
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			entry.Key,
			entry.DisplayName,
			formatAmounts(reg, r.Ingredients),
			formatAmounts(reg, r.Outputs),
			formatAmounts(reg, r.Requires),
			fmt.Sprintf("%d", r.Ticks),
			ready,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func runSteps(cmd *cobra.Command, args []string) error {
	groups, err := parseStepGroups(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	return applySteps(cmd.OutOrStdout(), e, groups)
}

// applySteps runs every group in order, prints the inventory, and reports the first rejected step
func applySteps(w io.Writer, e *engine.Engine, groups []stepGroup) error {
	successColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed)

	var stepErr error
	for _, g := range groups {
		done, err := e.Run(g.Key, g.Count)
		logger.Debug("ran steps", "recipe", g.Key, "requested", g.Count, "applied", done, "time", e.Time())
		if err != nil {
			errorColor.Fprintf(w, "✗ %s: %d/%d steps: %v\n", g.Key, done, g.Count, err)
			stepErr = fmt.Errorf("step %d of %s: %w", done+1, g.Key, err)
			break
		}
		successColor.Fprintf(w, "✓ %s ×%d\n", g.Key, done)
	}

	if err := printInventory(w, e); err != nil {
		return err
	}
	fmt.Fprintf(w, "Time: %d\n", e.Time())
	return stepErr
}

func printInventory(w io.Writer, e *engine.Engine) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Amount"}),
	)
	reg := e.Resources()
	for _, h := range reg.Handles() {
		name, _ := reg.NameOf(h)
		if err := table.Append([]string{name, fmt.Sprintf("%.1f", e.Amount(h))}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := loader.SchemaJSON()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
