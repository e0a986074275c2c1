package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kuryletso/todo-cli/internal/calendar"
	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
	"github.com/kuryletso/todo-cli/internal/storage"
	"github.com/kuryletso/todo-cli/internal/task"
)

var shiftArg = regexp.MustCompile(`^[-+]?[0-9]+$`)

// normalizeShiftArgs rewrites a negative positional shift ("week -1") into
// --shift=-1 so the flag parser does not take it for a shorthand flag. Only
// arguments of the week and month commands are touched, and never the value
// of a flag.
func normalizeShiftArgs(root *cobra.Command, args []string) []string {
	sub, _, err := root.Find(args)
	if err != nil || (sub.Name() != "week" && sub.Name() != "month") {
		return args
	}
	flagSets := []*pflag.FlagSet{sub.Flags(), root.PersistentFlags()}

	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		isValue := i > 0 && flagTakesValue(flagSets, args[i-1])
		if !isValue && len(arg) > 1 && arg[0] == '-' && shiftArg.MatchString(arg) {
			out = append(out, "--shift="+arg)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// flagTakesValue reports whether arg is a flag that consumes the next argument.
func flagTakesValue(flagSets []*pflag.FlagSet, arg string) bool {
	if strings.Contains(arg, "=") || len(arg) < 2 || arg[0] != '-' {
		return false
	}
	for _, flags := range flagSets {
		var f *pflag.Flag
		switch {
		case strings.HasPrefix(arg, "--"):
			f = flags.Lookup(arg[2:])
		case len(arg) == 2:
			f = flags.ShorthandLookup(arg[1:])
		}
		if f != nil {
			return f.NoOptDefVal == ""
		}
	}
	return false
}

// resolveShift combines the positional shift with --shift; the positional wins.
func resolveShift(args []string, flagShift int) (int, error) {
	if len(args) == 0 {
		return flagShift, nil
	}
	if !shiftArg.MatchString(args[0]) {
		return 0, todoerrors.InvalidShiftError{Value: args[0]}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, todoerrors.InvalidShiftError{Value: args[0]}
	}
	return n, nil
}

// referenceDate returns the --date value, or today when it is empty.
func referenceDate(dateStr string) (task.Date, error) {
	if dateStr == "" {
		return task.Today(), nil
	}
	return task.ParseDate(dateStr)
}

// shiftMonth moves (year, month) of base by n months across year boundaries.
func shiftMonth(base task.Date, n int) (int, time.Month) {
	t := time.Date(base.Year, base.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// weekCmd implements 'todo week'.
func weekCmd() *cobra.Command {
	var dateStr string
	var shift int
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "week [shift]",
		Short: "Show the tasks of a week as a grid",
		Long:  "Show the Monday-to-Sunday grid of the reference week, optionally shifted by a number of weeks (e.g. -1, +2).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := resolveShift(args, shift)
			if err != nil {
				return err
			}
			ref, err := referenceDate(dateStr)
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			grid := calendar.Week(store.List(storage.Filter{}), ref.AddDays(n*7), calendar.WeekOptions{
				Color:      cfg.ColorEnabled,
				ShowHeader: !noHeader,
			})
			printOutput(cmd, grid+"\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&shift, "shift", 0, "Shift weeks relative to the reference date")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Hide the date range header")
	return cmd
}

// monthCmd implements 'todo month'.
func monthCmd() *cobra.Command {
	var dateStr string
	var shift int
	cmd := &cobra.Command{
		Use:   "month [shift]",
		Short: "Show a month calendar shaded by task count",
		Long:  "Show the reference month, optionally shifted by a number of months (e.g. -1, +2), with days colored by how many tasks they hold.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := resolveShift(args, shift)
			if err != nil {
				return err
			}
			ref, err := referenceDate(dateStr)
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			year, month := shiftMonth(ref, n)
			grid := calendar.Month(store.List(storage.Filter{}), year, month, calendar.MonthOptions{
				Color: cfg.ColorEnabled,
			})
			printOutput(cmd, grid+"\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&shift, "shift", 0, "Shift months relative to the reference date")
	return cmd
}
