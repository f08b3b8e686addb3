// Package ui is the tray and window shell around core.AppController.
package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"zapret-launcher/core"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/dialogs"
)

// App manages the window tabs and the tray menu.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	core    *core.AppController
	logView *LogView
	tabs    *container.AppTabs

	mu         sync.Mutex
	refreshers []func()
}

// NewApp builds the window content for controller.
func NewApp(fyneApp fyne.App, window fyne.Window, controller *core.AppController, logView *LogView) *App {
	a := &App{
		fyneApp: fyneApp,
		window:  window,
		core:    controller,
		logView: logView,
	}

	a.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Strategies", theme.MediaPlayIcon(), CreateControlTab(a)),
		container.NewTabItemWithIcon("Hosts", theme.DocumentIcon(), CreateHostsTab(a)),
		container.NewTabItemWithIcon("Lists", theme.ListIcon(), CreateToolsTab(a)),
		container.NewTabItemWithIcon("Diagnostics", theme.SearchIcon(), CreateDiagnosticsTab(a)),
		container.NewTabItemWithIcon("Settings", theme.SettingsIcon(), CreateSettingsTab(a)),
	)
	return a
}

// GetTabs returns the tabs container
func (a *App) GetTabs() *container.AppTabs {
	return a.tabs
}

// GetWindow returns the main window
func (a *App) GetWindow() fyne.Window {
	return a.window
}

// onRefresh registers fn to run on the UI thread after every state change.
func (a *App) onRefresh(fn func()) {
	a.mu.Lock()
	a.refreshers = append(a.refreshers, fn)
	a.mu.Unlock()
}

// Refresh re-reads controller state into every tab and the tray menu.
func (a *App) Refresh() {
	a.mu.Lock()
	fns := append([]func(){}, a.refreshers...)
	a.mu.Unlock()

	fyne.Do(func() {
		for _, fn := range fns {
			fn()
		}
		a.updateTrayMenu()
	})
}

// notify sends a desktop notification when the user has them enabled.
func (a *App) notify(title, message string) {
	dialogs.Notify(a.fyneApp, a.core.Settings.Get().Notifications, title, message)
}

// runAsync runs fn off the UI thread, reports a failure in a dialog and refreshes afterwards.
func (a *App) runAsync(action string, fn func() error) {
	go func() {
		err := fn()
		if err != nil {
			debuglog.ErrorLog("ui: %s: %v", action, err)
			dialogs.ShowError(a.window, fmt.Errorf("%s: %w", action, err))
		}
		a.Refresh()
	}()
}

// ShowWindow brings the main window to the front.
func (a *App) ShowWindow() {
	fyne.Do(func() {
		a.window.Show()
		a.window.RequestFocus()
	})
}

// InstallTray sets the tray icon and menu when the driver supports one.
func (a *App) InstallTray() bool {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayIcon(theme.ComputerIcon())
	desk.SetSystemTrayMenu(a.CreateTrayMenu())
	return true
}

func (a *App) updateTrayMenu() {
	if desk, ok := a.fyneApp.(desktop.App); ok {
		func() {
			defer func() {
				if r := recover(); r != nil {
					debuglog.WarnLog("updateTrayMenu: Recovered from panic: %v", r)
				}
			}()
			desk.SetSystemTrayMenu(a.CreateTrayMenu())
		}()
	}
}

// title is the main window title.
func (a *App) title() string {
	return fmt.Sprintf("%s %s", constants.AppName, constants.AppVersion)
}
