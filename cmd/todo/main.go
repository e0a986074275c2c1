package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kuryletso/todo-cli/internal/config"
	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
	"github.com/kuryletso/todo-cli/internal/logging"
	"github.com/kuryletso/todo-cli/internal/output"
	"github.com/kuryletso/todo-cli/internal/storage"
	"github.com/kuryletso/todo-cli/internal/task"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level by design
var (
	jsonOutput bool
	noColor    bool
	configFile string
	logLevel   string
	formatter  output.Formatter
	logger     *log.Logger
	cfg        *config.Config
)

func main() {
	rootCmd := newRootCmd(os.Stderr)
	rootCmd.SetArgs(normalizeShiftArgs(rootCmd, os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		f := formatter
		if f == nil {
			f = output.NewHumanFormatter()
		}
		os.Stderr.WriteString(f.FormatError(err)) //nolint:gosec // stderr write errors are unrecoverable
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Diagnostics are logged to logOut.
func newRootCmd(logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A personal, file-based task tracker",
		Long:          "todo - track dated tasks in a local file and view them as a week or month calendar.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if jsonOutput {
				formatter = output.NewJSONFormatter()
			} else {
				formatter = output.NewHumanFormatter()
			}

			level := logLevel
			if level == "" {
				level = os.Getenv(logging.EnvLevel)
			}
			if level == "" {
				level = logging.DefaultLevel
			}
			logger = logging.New(logOut, level)

			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored calendar output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		addCmd(),
		editCmd(),
		deleteCmd(),
		doneCmd(),
		cancelCmd(),
		reopenCmd(),
		showCmd(),
		listCmd(),
		weekCmd(),
		monthCmd(),
	)

	return rootCmd
}

// loadConfig resolves and creates the data directory, then reads config.toml.
func loadConfig() error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err = config.Init(dataDir); err != nil {
		return err
	}

	path := config.Path(dataDir, configFile)
	cfg, err = config.Load(path, dataDir)
	if err != nil {
		return err
	}
	if noColor {
		cfg.ColorEnabled = false
	}
	logger.Debug("loaded config", "path", path, "task_file", cfg.TaskFile, "color", cfg.ColorEnabled)
	return nil
}

func getStore() (*storage.Store, error) {
	store, err := storage.Open(cfg.TaskFile, storage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	return store, nil
}

func printOutput(cmd *cobra.Command, s string) {
	cmd.OutOrStdout().Write([]byte(s)) //nolint:errcheck,gosec // stdout write errors are unrecoverable
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %s", s)
	}
	return id, nil
}

// addCmd implements 'todo add'.
func addCmd() *cobra.Command {
	var title, dateStr, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			taskDate, err := task.ParseDate(dateStr)
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			t, err := store.Add(title, taskDate, description)
			if err != nil {
				return err
			}
			printOutput(cmd, formatter.FormatResult(fmt.Sprintf("Task created with ID %d", t.ID), t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title")
	cmd.Flags().StringVar(&dateStr, "date", "", "Task date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

// editCmd implements 'todo edit'.
func editCmd() *cobra.Command {
	var title, dateStr, description string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's title, date or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch storage.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("date") {
				taskDate, parseErr := task.ParseDate(dateStr)
				if parseErr != nil {
					return parseErr
				}
				patch.TaskDate = &taskDate
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			t, found, err := store.Update(id, patch)
			if err != nil {
				return err
			}
			if !found {
				return todoerrors.TaskNotFoundError{ID: id}
			}
			printOutput(cmd, formatter.FormatResult(fmt.Sprintf("Task %d updated", t.ID), t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&dateStr, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty clears it)")
	return cmd
}

// deleteCmd implements 'todo delete'.
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			removed, err := store.Delete(id)
			if err != nil {
				return err
			}
			if !removed {
				return todoerrors.TaskNotFoundError{ID: id}
			}
			printOutput(cmd, formatter.FormatMessage(fmt.Sprintf("Task %d deleted.", id)))
			return nil
		},
	}
}

// statusCmd builds a command that sets a task's status.
func statusCmd(use, short string, status task.Status, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			st := status
			t, found, err := store.Update(id, storage.Patch{Status: &st})
			if err != nil {
				return err
			}
			if !found {
				return todoerrors.TaskNotFoundError{ID: id}
			}
			printOutput(cmd, formatter.FormatResult(fmt.Sprintf("Task %d %s.", id, done), t))
			return nil
		},
	}
}

// doneCmd implements 'todo done'.
func doneCmd() *cobra.Command {
	return statusCmd("done", "Mark a task as done", task.StatusDone, "marked as done")
}

// cancelCmd implements 'todo cancel'.
func cancelCmd() *cobra.Command {
	return statusCmd("cancel", "Cancel a task", task.StatusCanceled, "canceled")
}

// reopenCmd implements 'todo reopen'.
func reopenCmd() *cobra.Command {
	return statusCmd("reopen", "Mark a task as active again", task.StatusActive, "reopened")
}

// showCmd implements 'todo show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := getStore()
			if err != nil {
				return err
			}

			t, found := store.Get(id)
			if !found {
				return todoerrors.TaskNotFoundError{ID: id}
			}
			printOutput(cmd, formatter.FormatTask(t))
			return nil
		},
	}
}

// listCmd implements 'todo list'.
func listCmd() *cobra.Command {
	var statusStr, dateStr string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks ordered by date",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter storage.Filter
			if statusStr != "" {
				st, err := task.ParseStatus(statusStr)
				if err != nil {
					return err
				}
				filter.Status = st
			}
			if dateStr != "" {
				d, err := task.ParseDate(dateStr)
				if err != nil {
					return err
				}
				filter.Date = d
			}

			store, err := getStore()
			if err != nil {
				return err
			}
			printOutput(cmd, formatter.FormatTaskList(store.List(filter)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&statusStr, "status", "s", "", "Only show tasks with this status ("+task.StatusNames()+")")
	cmd.Flags().StringVar(&dateStr, "date", "", "Only show tasks on this date (YYYY-MM-DD)")
	return cmd
}
