package driver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/napolitain/idlecore/internal/engine"
	"github.com/napolitain/idlecore/internal/loader"
)

// MenuItem is one numbered recipe choice
type MenuItem struct {
	Number      int
	DisplayName string
	Key         string
}

// Driver runs the interactive menu loop against one engine
type Driver struct {
	engine *engine.Engine
	menu   []MenuItem
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger

	last *MenuItem // nil until a step succeeds
}

// New creates a driver over the given recipe entries, in menu order
func New(e *engine.Engine, entries []loader.Entry, in io.Reader, out io.Writer, logger *log.Logger) *Driver {
	menu := make([]MenuItem, len(entries))
	for i, entry := range entries {
		menu[i] = MenuItem{Number: i + 1, DisplayName: entry.DisplayName, Key: entry.Key}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		engine: e,
		menu:   menu,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Menu returns the numbered choices, excluding Quit
func (d *Driver) Menu() []MenuItem {
	out := make([]MenuItem, len(d.menu))
	copy(out, d.menu)
	return out
}

func (d *Driver) quitNumber() int {
	return len(d.menu) + 1
}

// Run plays until the user quits or input ends
func (d *Driver) Run() error {
	d.printMenu()

	for {
		d.printInventory()
		fmt.Fprintf(d.out, "\nEnter your choice (1-%d) or press Enter to repeat: ", d.quitNumber())

		if !d.in.Scan() {
			fmt.Fprintln(d.out)
			return d.in.Err()
		}
		choice := strings.TrimSpace(d.in.Text())

		if choice == "" {
			if d.last == nil {
				fmt.Fprintln(d.out, "No previous action to repeat. Please select an action first.")
				continue
			}
			choice = strconv.Itoa(d.last.Number)
		}

		if choice == strconv.Itoa(d.quitNumber()) {
			color.New(color.FgCyan).Fprintln(d.out, "Thanks for playing!")
			return nil
		}

		if item, ok := d.resolve(choice); ok {
			d.step(item)
		} else {
			d.printInvalid(choice)
		}

		fmt.Fprintf(d.out, "Time: %d\n", d.engine.Time())
	}
}

// resolve maps a menu number or recipe key to a menu item
func (d *Driver) resolve(choice string) (MenuItem, bool) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(d.menu) {
			return d.menu[n-1], true
		}
		return MenuItem{}, false
	}
	for _, item := range d.menu {
		if item.Key == choice {
			return item, true
		}
	}
	return MenuItem{}, false
}

func (d *Driver) step(item MenuItem) {
	if err := d.engine.Step(item.Key); err != nil {
		d.logger.Debug("step rejected", "recipe", item.Key, "err", err, "time", d.engine.Time())
		color.New(color.FgRed).Fprintf(d.out, "Error: %v\n", err)
		return
	}
	d.logger.Debug("step applied", "recipe", item.Key, "time", d.engine.Time())
	color.New(color.FgGreen).Fprintf(d.out, "%s...\n", item.DisplayName)
	d.last = &item
}

func (d *Driver) printMenu() {
	color.New(color.FgYellow, color.Bold).Fprintln(d.out, "Available recipes:")
	for _, item := range d.menu {
		fmt.Fprintf(d.out, "%d. %s\n", item.Number, item.DisplayName)
	}
	fmt.Fprintf(d.out, "%d. Quit\n", d.quitNumber())
	fmt.Fprintln(d.out)
}

func (d *Driver) printInventory() {
	fmt.Fprintln(d.out, "\n=== Current Inventory ===")
	reg := d.engine.Resources()
	inv := d.engine.Inventory()
	for _, h := range reg.Handles() {
		name, _ := reg.NameOf(h)
		fmt.Fprintf(d.out, "%s: %.1f\n", name, inv.Amount(h))
	}
}

func (d *Driver) printInvalid(choice string) {
	if _, err := strconv.Atoi(choice); err != nil {
		keys := make([]string, len(d.menu))
		for i, item := range d.menu {
			keys[i] = item.Key
		}
		if hint := loader.Suggest(choice, keys); hint != "" {
			fmt.Fprintf(d.out, "Invalid choice. Did you mean %q?\n", hint)
			return
		}
	}
	fmt.Fprintf(d.out, "Invalid choice. Please enter 1-%d or press Enter to repeat.\n", d.quitNumber())
}
