package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/core/settings"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/platform"
)

// CreateSettingsTab creates the preferences tab. Every change is saved immediately.
func CreateSettingsTab(a *App) fyne.CanvasObject {
	autoStart := widget.NewCheck("Start with Windows", nil)
	notifications := widget.NewCheck("Show notifications", nil)
	minimizeToTray := widget.NewCheck("Minimize to tray on close", nil)
	gameFilter := widget.NewCheck("Game filter", nil)
	checks := []*widget.Check{autoStart, notifications, minimizeToTray, gameFilter}

	save := func(bool) {
		s := a.core.Settings.Get()
		s.AutoStart = autoStart.Checked
		s.Notifications = notifications.Checked
		s.MinimizeToTray = minimizeToTray.Checked
		s.GameFilter = gameFilter.Checked
		a.runAsync("Save settings", func() error { return a.core.SaveSettings(s) })
	}

	load := func(s settings.Settings) {
		for _, c := range checks {
			c.OnChanged = nil
		}
		autoStart.SetChecked(s.AutoStart)
		notifications.SetChecked(s.Notifications)
		minimizeToTray.SetChecked(s.MinimizeToTray)
		gameFilter.SetChecked(a.core.GameFilter.Enabled())
		for _, c := range checks {
			c.OnChanged = save
		}
	}
	a.onRefresh(func() { load(a.core.Settings.Get()) })
	load(a.core.Settings.Get())

	logsButton := widget.NewButtonWithIcon("Open logs folder", theme.FolderOpenIcon(), func() {
		a.runAsync("Open logs folder", func() error { return platform.OpenFolder(a.core.Paths.ExecDir()) })
	})

	return container.NewVBox(
		autoStart,
		notifications,
		minimizeToTray,
		gameFilter,
		widget.NewSeparator(),
		widget.NewLabel("Data folder: "+a.core.Paths.Root()),
		widget.NewLabel(constants.AppName+" "+constants.AppVersion),
		logsButton,
	)
}
