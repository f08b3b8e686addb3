package main

import (
	"context"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"zapret-launcher/core"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/dialogs"
	"zapret-launcher/internal/platform"
	"zapret-launcher/ui"
)

func main() {
	silent := false
	for _, arg := range os.Args[1:] {
		if arg == core.SilentFlag {
			silent = true
		}
	}

	root, err := platform.DefaultRoot()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	paths := platform.NewPaths(root, "")

	mainLog, err := core.OpenMainLog(paths.ExecDir())
	if err != nil {
		log.Printf("main: %v", err)
	} else {
		defer debuglog.CloseWithLog("main: close log", mainLog)
	}

	logView := ui.NewLogView()
	sink := debuglog.NewFileSink(paths.LatestLogPath(), constants.LogPrefix)
	sink.Subscribe(logView.Append)

	controller, err := core.NewAppController(core.Options{Root: root, ExecDir: paths.ExecDir(), Sink: sink})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	fyneApp := app.NewWithID(constants.AppID)
	window := fyneApp.NewWindow(constants.AppName)
	a := ui.NewApp(fyneApp, window, controller, logView)
	window.SetContent(a.GetTabs())
	window.Resize(fyne.NewSize(420, 520))
	window.CenterOnScreen()

	hasTray := a.InstallTray()
	window.SetCloseIntercept(func() {
		if hasTray && controller.Settings.Get().MinimizeToTray {
			window.Hide()
			return
		}
		fyneApp.Quit()
	})

	if watcher, err := ui.WatchDir(controller.Paths.Strategies(), a.Refresh); err != nil {
		debuglog.WarnLog("main: strategies folder not watched: %v", err)
	} else {
		defer debuglog.CloseWithLog("main: close watcher", watcher)
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		if core.LauncherAlreadyRunning() {
			dialogs.ShowInfo(window, "Information", "The application is already running. Use the existing instance or close it before starting a new one.")
		}
		go startupChecks(a, controller, window)
	})

	if silent && hasTray {
		fyneApp.Run()
	} else {
		window.ShowAndRun()
	}
	log.Println("Application shutting down.")
}

// startupChecks fetches a missing or outdated binary and offers to migrate a legacy folder.
func startupChecks(a *ui.App, controller *core.AppController, window fyne.Window) {
	updated, err := controller.UpdateBinary(context.Background())
	switch {
	case err != nil:
		debuglog.Emitf(controller.Sink, debuglog.LevelWarn, "binary update check failed: %v", err)
	case updated:
		dialogs.Notify(fyne.CurrentApp(), controller.Settings.Get().Notifications, "Zapret", "winws.exe updated to the latest version")
	}

	if controller.HasLegacyFolder() {
		dialogs.ShowConfirm(window, "Legacy folder",
			"An older installation folder was found. Copy its strategies before removing it?",
			func(copyStrategies bool) {
				go func() {
					if err := controller.MigrateLegacy(copyStrategies); err != nil {
						dialogs.ShowError(window, err)
					}
					a.Refresh()
				}()
			})
	}
	a.Refresh()
}
