package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pomodorotasks/internal/bookmark"
	"pomodorotasks/internal/platform"
	"pomodorotasks/internal/storage"
	"pomodorotasks/internal/tasks"
)

const (
	appName          = "Pomodoro Tasks"
	appID            = "com.pomodorotasks.app"
	defaultPanelAddr = "127.0.0.1:7425"
)

type rootOptions struct {
	dataDir   string
	panelAddr string
	noPanel   bool
}

func newRootCmd() *cobra.Command {
	options := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "pomodoro-tasks",
		Short:         "Pomodoro timer with a task list",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd.Context(), options)
		},
	}

	cmd.PersistentFlags().StringVar(&options.dataDir, "data-dir", "", "keep settings, tasks and history in this directory")
	cmd.PersistentFlags().StringVar(&options.panelAddr, "panel-addr", defaultPanelAddr, "listen address of the web panel")
	cmd.PersistentFlags().BoolVar(&options.noPanel, "no-panel", false, "do not start the web panel")

	cmd.AddCommand(
		newRunCmd(options),
		newTaskCmd(options),
		newHistoryCmd(options),
		newScanCmd(options),
		newAutostartCmd(),
	)
	return cmd
}

func newRunCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the tray app (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd.Context(), options)
		},
	}
}

// stores holds the persistent state shared by the app and the subcommands.
type stores struct {
	dirs    platform.Dirs
	db      *storage.TaskDB
	tasks   *tasks.Service
	history *storage.HistoryLog
}

func openStores(dirs platform.Dirs) (*stores, error) {
	if err := dirs.Ensure(); err != nil {
		return nil, err
	}
	db, err := storage.OpenTaskDB(storage.TasksPath(dirs.Data))
	if err != nil {
		return nil, err
	}
	history, err := storage.OpenHistory(storage.HistoryPath(dirs.Data))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &stores{
		dirs:    dirs,
		db:      db,
		tasks:   tasks.NewService(db),
		history: history,
	}, nil
}

func (s *stores) Close() error {
	return s.db.Close()
}

func withStores(options *rootOptions, fn func(*stores) error) error {
	s, err := openStores(platform.ResolveDirs(appName, options.dataDir))
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// importBookmarks scans dir for TODO/FIXME comments and stores the new ones.
func importBookmarks(ctx context.Context, service *tasks.Service, dir string) (found, added int, err error) {
	bookmarks, err := bookmark.NewScanner(dir).Tasks(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	added, err = service.ImportBookmarks(ctx, bookmarks)
	if err != nil {
		return len(bookmarks), added, fmt.Errorf("import bookmarks: %w", err)
	}
	return len(bookmarks), added, nil
}
