package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/platform"
	"pomodorotasks/internal/tasks"
)

var errAmbiguousID = errors.New("ambiguous task id")

func newTaskCmd(options *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var description string
	var estimated int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(options, func(s *stores) error {
				task, err := s.tasks.Create(cmd.Context(), strings.Join(args, " "), description, estimated)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Name)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "task description")
	add.Flags().IntVarP(&estimated, "estimate", "e", 1, "estimated pomodoros")

	var showAll bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(options, func(s *stores) error {
				all, err := s.tasks.All(cmd.Context())
				if err != nil {
					return err
				}
				writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "ID\tSTATUS\tPOMODOROS\tNAME")
				for _, task := range all {
					if task.IsCompleted && !showAll {
						continue
					}
					status := "pending"
					if task.IsCompleted {
						status = "done"
					}
					fmt.Fprintf(writer, "%s\t%s\t%d/%d\t%s\n", shortID(task.ID), status, task.CompletedPomodoros, task.EstimatedPomodoros, task.Name)
				}
				return writer.Flush()
			})
		},
	}
	list.Flags().BoolVarP(&showAll, "all", "a", false, "include completed tasks")

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(options, func(s *stores) error {
				id, err := resolveTaskID(cmd.Context(), s.tasks, args[0])
				if err != nil {
					return err
				}
				task, err := s.tasks.Complete(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", task.Name)
				return nil
			})
		},
	}

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(options, func(s *stores) error {
				id, err := resolveTaskID(cmd.Context(), s.tasks, args[0])
				if err != nil {
					return err
				}
				if err := s.tasks.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, done, remove)
	return cmd
}

func newHistoryCmd(options *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed work sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(options, func(s *stores) error {
				names := map[string]string{}
				if all, err := s.tasks.All(cmd.Context()); err == nil {
					for _, task := range all {
						names[task.ID] = task.Name
					}
				}

				records := s.history.Records()
				if limit > 0 && len(records) > limit {
					records = records[len(records)-limit:]
				}
				writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "STARTED\tMINUTES\tTASK")
				for _, record := range records {
					fmt.Fprintf(writer, "%s\t%d\t%s\n", record.StartTime.Local().Format(time.DateTime), record.DurationMinutes, taskLabel(names, record))
				}
				return writer.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many sessions, 0 for all")
	return cmd
}

func newScanCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Import TODO and FIXME comments as tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return withStores(options, func(s *stores) error {
				found, added, err := importBookmarks(cmd.Context(), s.tasks, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Found %d comments, imported %d new tasks\n", found, added)
				return nil
			})
		},
	}
}

func newAutostartCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "autostart <on|off>",
		Short:     "Launch the tray app at login",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			autostart, err := platform.NewAutostart(appName)
			if err != nil {
				return err
			}
			switch args[0] {
			case "on":
				err = autostart.Enable()
			case "off":
				err = autostart.Disable()
			default:
				return fmt.Errorf("unknown autostart mode %q, want on or off", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s\n", args[0])
			return nil
		},
	}
}

// resolveTaskID accepts a full id or a unique prefix of one.
func resolveTaskID(ctx context.Context, service *tasks.Service, prefix string) (string, error) {
	all, err := service.All(ctx)
	if err != nil {
		return "", err
	}
	match := ""
	for _, task := range all {
		if task.ID == prefix {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, prefix)
			}
			match = task.ID
		}
	}
	if match == "" {
		return prefix, nil
	}
	return match, nil
}

func shortID(id string) string {
	if strings.HasPrefix(id, "bookmark_") || len(id) <= 8 {
		return id
	}
	return id[:8]
}

func taskLabel(names map[string]string, record model.SessionRecord) string {
	if name, ok := names[record.TaskID]; ok {
		return name
	}
	if record.TaskID == "" {
		return "(no task)"
	}
	return record.TaskID
}
