// cmd/tools/catalog-tool/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"mergington-activities/pkg/catalog"
)

const defaultCatalogPath = "configs/activities.json"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		help(stderr)
		return 1
	}

	var err error
	switch args[0] {
	case "validate":
		err = validateCmd(args[1:], stdout)
	case "list":
		err = listCmd(args[1:], stdout)
	case "add":
		err = addCmd(args[1:], stdout)
	case "set-capacity":
		err = setCapacityCmd(args[1:], stdout)
	case "help", "-h", "--help":
		help(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n", args[0])
		help(stderr)
		return 1
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", defaultCatalogPath, "Path to catalog file")
	return fs, path
}

func validateCmd(args []string, out io.Writer) error {
	fs, path := newFlagSet("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Load(*path)
	if err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	fmt.Fprintf(out, "Catalog validation passed: %d activities.\n", len(cat.Activities))
	return nil
}

func listCmd(args []string, out io.Writer) error {
	fs, path := newFlagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Load(*path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tENROLLED\tCAPACITY\tSCHEDULE")
	for _, a := range cat.Activities {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", a.Name, len(a.Participants), a.MaxParticipants, a.Schedule)
	}
	return tw.Flush()
}

func addCmd(args []string, out io.Writer) error {
	fs, path := newFlagSet("add")
	name := fs.String("name", "", "Activity name (e.g., Robotics Club)")
	description := fs.String("description", "", "Description")
	schedule := fs.String("schedule", "", "Schedule (e.g., Wednesdays, 3:30 PM - 5:00 PM)")
	capacity := fs.Int("max", 0, "Maximum participants")
	participants := fs.String("participants", "", "Comma-separated seeded participant emails")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *capacity <= 0 {
		fs.Usage()
		return errors.New("name and a positive max are required for add")
	}

	cat, err := loadOrNew(*path)
	if err != nil {
		return err
	}
	if _, exists := cat.Find(*name); exists {
		return fmt.Errorf("activity %q already exists", *name)
	}

	cat.Activities = append(cat.Activities, catalog.Activity{
		Name:            *name,
		Description:     *description,
		Schedule:        *schedule,
		MaxParticipants: *capacity,
		Participants:    splitCSV(*participants),
	})
	if err := catalog.Save(*path, cat); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added activity: %s\n", *name)
	return nil
}

func setCapacityCmd(args []string, out io.Writer) error {
	fs, path := newFlagSet("set-capacity")
	name := fs.String("name", "", "Activity name")
	capacity := fs.Int("max", 0, "New maximum participants")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *capacity <= 0 {
		fs.Usage()
		return errors.New("name and a positive max are required for set-capacity")
	}

	cat, err := catalog.Load(*path)
	if err != nil {
		return err
	}
	activity, ok := cat.Find(*name)
	if !ok {
		return fmt.Errorf("activity %q not found", *name)
	}
	if len(activity.Participants) > *capacity {
		return fmt.Errorf("activity %q already has %d participants", *name, len(activity.Participants))
	}
	old := activity.MaxParticipants
	activity.MaxParticipants = *capacity

	if err := catalog.Save(*path, cat); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %s capacity from %d to %d\n", *name, old, *capacity)
	return nil
}

func loadOrNew(path string) (*catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err == nil {
		return cat, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return &catalog.Catalog{Version: "1.0.0", Activities: []catalog.Activity{}}, nil
	}
	return nil, fmt.Errorf("failed to load catalog: %w", err)
}

func splitCSV(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func help(w io.Writer) {
	fmt.Fprintln(w, `Usage: catalog-tool <command> [flags]

Commands:
  validate      Validate a catalog file against the catalog schema
  list          Print activities with enrollment and capacity
  add           Add an activity (-name, -max, -description, -schedule, -participants)
  set-capacity  Change an activity's max participants (-name, -max)

All commands accept -path (default configs/activities.json).`)
}
