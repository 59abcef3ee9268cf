package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
	"pomodorotasks/internal/logging"
	"pomodorotasks/internal/metrics"
	"pomodorotasks/internal/panel"
	"pomodorotasks/internal/platform"
	"pomodorotasks/internal/storage"
	"pomodorotasks/internal/tasks"
	"pomodorotasks/internal/ui/breakview"
	"pomodorotasks/internal/ui/notify"
	"pomodorotasks/internal/ui/preferences"
	"pomodorotasks/internal/ui/sound"
	"pomodorotasks/internal/ui/tasklist"
	"pomodorotasks/internal/ui/tray"
)

const eventBuffer = 16

func runDesktop(ctx context.Context, options *rootOptions) error {
	dirs := platform.ResolveDirs(appName, options.dataDir)
	if err := dirs.Ensure(); err != nil {
		return err
	}

	logFile, err := logging.Setup(dirs.State)
	if err != nil {
		log.Printf("logging: %v", err)
	} else {
		defer logFile.Close()
	}

	guard, err := platform.AcquireSingleInstance(dirs.Runtime, appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			log.Printf("single instance: %v", err)
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(dirs.Config)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	s, err := openStores(dirs)
	if err != nil {
		return err
	}
	defer s.Close()

	timer := pomodoro.New(settings.TimerConfig(), pomodoro.Options{})
	timer.SetTaskStore(s.tasks)
	timer.SetSessionLog(s.history)
	defer timer.Dispose()
	settingsStore := newSettingsStore(dirs.Config, settings, timer)

	fyneApp := app.NewWithID(appID)
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray unsupported on this platform")
	}
	notifier := notify.New(fyneApp)
	timer.SetNotifier(notifier)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)

	trayLabel := widget.NewLabel(pomodoro.Tooltip(timer.Status()))
	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(trayLabel)
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	breakWindow := breakview.New(fyneApp)
	breakWindow.SetOnStop(timer.Stop)
	player := sound.NewPlayer()

	prefsWindow := preferences.New(fyneApp, settings, settingsStore.saveOrWarn(notifier.Warn))
	settingsStore.onChange = func(updated preferences.Settings) {
		fyne.Do(func() {
			prefsWindow.UpdateSettings(updated)
		})
	}

	taskWindow := tasklist.New(fyneApp, tasklist.Actions{
		OnStart: func(task model.Task) {
			go func() {
				if err := timer.Start(groupCtx, &task); err != nil {
					log.Printf("tasks: start %s: %v", task.ID, err)
				}
			}()
		},
		OnComplete: func(id string) {
			go func() {
				if _, err := s.tasks.Complete(groupCtx, id); err != nil {
					notifier.Warn(fmt.Sprintf("Could not complete task: %v", err))
				}
			}()
		},
		OnDelete: func(id string) {
			go func() {
				if err := s.tasks.Delete(groupCtx, id); err != nil {
					notifier.Warn(fmt.Sprintf("Could not delete task: %v", err))
				}
			}()
		},
		OnAdd: func(name string, estimated int) {
			go func() {
				if _, err := s.tasks.Create(groupCtx, name, "", estimated); err != nil {
					notifier.Warn(fmt.Sprintf("Could not add task: %v", err))
				}
			}()
		},
	})

	quit := func() {
		cancel()
		timer.Dispose()
		fyneApp.Quit()
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart: func() {
			go func() {
				if err := timer.Start(groupCtx, nil); err != nil {
					log.Printf("tray: start: %v", err)
				}
			}()
		},
		OnTogglePause: func() {
			var err error
			if timer.Status().State == model.StatePaused {
				err = timer.Resume()
			} else {
				err = timer.Pause()
			}
			if err != nil {
				log.Printf("tray: toggle pause: %v", err)
			}
		},
		OnStop:        timer.Stop,
		OnTasks:       taskWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnOpenPanel: func() {
			if options.noPanel {
				notifier.Warn("The web panel is disabled")
				return
			}
			target := &url.URL{Scheme: "http", Host: options.panelAddr}
			if err := fyneApp.OpenURL(target); err != nil {
				log.Printf("tray: open panel: %v", err)
			}
		},
		OnImportTodos: func() {
			pickFolder(fyneApp, func(dir string) {
				go func() {
					found, added, err := importBookmarks(groupCtx, s.tasks, dir)
					if err != nil {
						notifier.Warn(fmt.Sprintf("Import failed: %v", err))
						return
					}
					notifier.Info(fmt.Sprintf("Found %d comments, imported %d new tasks", found, added))
				}()
			})
		},
		OnQuit: quit,
	})
	trayManager.SetStatus(timer.Status())

	metricEvents := timer.Subscribe(eventBuffer)
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case event, ok := <-metricEvents:
				if !ok {
					return nil
				}
				collector.Observe(event)
			}
		}
	})

	uiEvents := timer.Subscribe(eventBuffer)
	group.Go(func() error {
		pumpUI(groupCtx, uiEvents, settingsStore, player, func(status model.Status) {
			fyne.Do(func() {
				trayManager.SetStatus(status)
				trayLabel.SetText(pomodoro.Tooltip(status))
				if settingsStore.Current().BreakWindow {
					breakWindow.Update(status)
				} else {
					breakWindow.Hide()
				}
			})
		})
		return nil
	})

	taskChanges := s.tasks.Subscribe(eventBuffer)
	group.Go(func() error {
		pumpTaskList(groupCtx, s.tasks, taskChanges, func(all []model.Task) {
			fyne.Do(func() {
				taskWindow.SetTasks(all)
			})
		})
		return nil
	})

	if !options.noPanel {
		broadcaster := panel.NewBroadcaster()
		bridge := panel.NewBridge(timer, s.tasks, settingsStore, broadcaster)
		server := panel.NewServer(bridge, broadcaster, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		panelEvents := timer.Subscribe(eventBuffer)
		panelChanges := s.tasks.Subscribe(eventBuffer)
		group.Go(func() error {
			bridge.PumpTimer(groupCtx, panelEvents)
			return nil
		})
		group.Go(func() error {
			bridge.PumpTasks(groupCtx, panelChanges)
			return nil
		})
		group.Go(func() error {
			if err := server.Serve(groupCtx, options.panelAddr); err != nil {
				log.Printf("panel: %v", err)
			}
			return nil
		})
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		log.Printf("app: started, data in %s", dirs.Data)
	})
	fyneApp.Run()

	cancel()
	timer.Dispose()
	return group.Wait()
}

// pumpUI forwards every status change to update and plays the warning tone.
func pumpUI(ctx context.Context, events <-chan pomodoro.Event, settings *settingsStore, player *sound.Player, update func(model.Status)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case pomodoro.EventTick, pomodoro.EventStateChange, pomodoro.EventDecision:
				update(event.Status)
			case pomodoro.EventWarning:
				update(event.Status)
				if settings.Current().Sound {
					if err := player.Beep(); err != nil {
						log.Printf("sound: %v", err)
					}
				}
			}
		}
	}
}

// pumpTaskList reloads the task list once at start and after every change.
func pumpTaskList(ctx context.Context, service *tasks.Service, changes <-chan tasks.Change, update func([]model.Task)) {
	reload := func() {
		all, err := service.All(ctx)
		if err != nil {
			log.Printf("tasks: list: %v", err)
			return
		}
		update(all)
	}

	reload()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			reload()
		}
	}
}

func pickFolder(fyneApp fyne.App, onPicked func(dir string)) {
	picker := fyneApp.NewWindow("Import TODOs")
	picker.Resize(fyne.NewSize(720, 520))
	picker.Show()

	folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
		picker.Close()
		if err != nil {
			log.Printf("import: pick folder: %v", err)
			return
		}
		if folder == nil {
			return
		}
		onPicked(folder.Path())
	}, picker)
	folderDialog.Resize(fyne.NewSize(700, 500))
	folderDialog.Show()
}
