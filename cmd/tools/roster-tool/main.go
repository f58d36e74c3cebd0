// cmd/tools/roster-tool/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rank-boost/internal/recommendation"
	"rank-boost/pkg/roster"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return errUsage
	}

	initCmd := flag.NewFlagSet("init", flag.ContinueOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	showCmd := flag.NewFlagSet("show", flag.ContinueOnError)
	recommendCmd := flag.NewFlagSet("recommend", flag.ContinueOnError)
	updateCmd := flag.NewFlagSet("update", flag.ContinueOnError)

	initPath := initCmd.String("path", "configs/roster.json", "Where to write the built-in roster")

	// An empty path means the built-in roster.
	validatePath := validateCmd.String("path", "", "Path to roster file")
	showPath := showCmd.String("path", "", "Path to roster file")

	recommendPath := recommendCmd.String("path", "", "Path to roster file")
	current := recommendCmd.String("current", "", "Current rank (e.g., 黄金)")
	target := recommendCmd.String("target", "", "Target rank (e.g., 铂金)")

	updatePath := updateCmd.String("path", "configs/roster.json", "Path to roster file")
	id := updateCmd.String("id", "", "Provider ID to update")
	field := updateCmd.String("field", "", "Field to update (name, level, type, priceFactor, skilledRanks)")
	value := updateCmd.String("value", "", "New value for the field")

	switch args[0] {
	case "init":
		if err := initCmd.Parse(args[1:]); err != nil {
			return errUsage
		}
		if err := saveRoster(roster.Default(), *initPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote built-in roster to %s\n", *initPath)

	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return errUsage
		}
		r, err := roster.Load(*validatePath)
		if err != nil {
			return fmt.Errorf("roster validation failed: %w", err)
		}
		fmt.Fprintf(out, "Roster validation passed. Found %d providers.\n", len(r.Providers))

	case "show":
		if err := showCmd.Parse(args[1:]); err != nil {
			return errUsage
		}
		engine, err := loadEngine(*showPath)
		if err != nil {
			return err
		}
		for _, line := range engine.Providers() {
			fmt.Fprintln(out, line)
		}

	case "recommend":
		if err := recommendCmd.Parse(args[1:]); err != nil {
			return errUsage
		}
		if *current == "" || *target == "" {
			fmt.Fprintln(out, "Error: current and target are required for recommend.")
			recommendCmd.SetOutput(out)
			recommendCmd.Usage()
			return errUsage
		}
		engine, err := loadEngine(*recommendPath)
		if err != nil {
			return err
		}
		rec := engine.Recommend(recommendation.Request{CurrentLevel: *current, TargetLevel: *target})
		fmt.Fprintf(out, "%s -> %s: %s (%s, price %.2f, %s)\n",
			*current, *target, rec.Provider.Name, rec.Provider.ID, rec.Provider.PriceFactor, rec.Outcome())

	case "update":
		if err := updateCmd.Parse(args[1:]); err != nil {
			return errUsage
		}
		if *id == "" || *field == "" || *value == "" {
			fmt.Fprintln(out, "Error: id, field, and value are required for update.")
			updateCmd.SetOutput(out)
			updateCmd.Usage()
			return errUsage
		}
		if err := updateProvider(*updatePath, *id, *field, *value); err != nil {
			return fmt.Errorf("updating provider: %w", err)
		}
		fmt.Fprintf(out, "Updated provider %s, field %s to %s\n", *id, *field, *value)

	case "help":
		help(out)

	default:
		help(out)
		return errUsage
	}
	return nil
}

func loadEngine(path string) (*recommendation.Engine, error) {
	r, err := roster.Load(path)
	if err != nil {
		return nil, err
	}
	return recommendation.NewEngine(r)
}

func updateProvider(path, id, field, value string) error {
	r, err := roster.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	found := false
	for i := range r.Providers {
		if r.Providers[i].ID != id {
			continue
		}
		found = true
		switch field {
		case "name":
			r.Providers[i].Name = value
		case "level":
			r.Providers[i].Level = value
		case "type":
			r.Providers[i].Type = value
		case "priceFactor":
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid priceFactor value: %w", err)
			}
			r.Providers[i].PriceFactor = price
		case "skilledRanks":
			r.Providers[i].SkilledRanks = strings.Split(value, ",")
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("provider with ID %s not found", id)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	return saveRoster(r, path)
}

// saveRoster creates the parent directory and writes the roster.
func saveRoster(r *roster.Roster, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := roster.Save(path, r); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, `
Usage: roster-tool <command> [flags]

Commands:
  init       Write the built-in roster to a file
  validate   Validate a roster file
  show       List providers with their skill ranges
  recommend  Show which provider an order would be matched to
  update     Update one field of a provider
  help       Show this help message

Examples:
  roster-tool init -path configs/roster.json
  roster-tool validate -path configs/roster.json
  roster-tool recommend -current 黄金 -target 铂金
  roster-tool update -path configs/roster.json -id player4 -field priceFactor -value 0.85

Use 'roster-tool <command> -h' for more information about a command.`)
}
