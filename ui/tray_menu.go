package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"

	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/constants"
)

const checkMark = "✓ "

// CreateTrayMenu creates the tray menu with the strategy submenu.
func (a *App) CreateTrayMenu() *fyne.Menu {
	current := a.core.CurrentStrategy()

	status := fyne.NewMenuItem("Active: "+current, nil)
	status.Disabled = true

	strategiesItem := fyne.NewMenuItem("Start strategy", nil)
	strategiesItem.ChildMenu = a.buildStrategySubmenu(current)

	gameFilterLabel := "Game filter"
	enabled := a.core.GameFilter.Enabled()
	if enabled {
		gameFilterLabel = checkMark + gameFilterLabel
	}

	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Open", a.ShowWindow),
		fyne.NewMenuItemSeparator(),
		status,
		strategiesItem,
		fyne.NewMenuItem("Stop", func() {
			a.runAsync("Stop", a.core.StopStrategy)
		}),
		fyne.NewMenuItem(gameFilterLabel, func() {
			a.runAsync("Game filter", func() error { return a.core.SetGameFilter(!enabled) })
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Check for updates", a.checkUpdates),
		fyne.NewMenuItem("Apply hosts", func() {
			a.runAsync("Apply hosts", func() error { return a.core.ApplyHosts(context.Background()) })
		}),
		fyne.NewMenuItemSeparator(),
	}

	quit := fyne.NewMenuItem("Quit", a.fyneApp.Quit)
	quit.IsQuit = true
	items = append(items, quit)

	return fyne.NewMenu(constants.AppName, items...)
}

func (a *App) buildStrategySubmenu(current string) *fyne.Menu {
	names := a.core.ListStrategies()
	if len(names) == 0 {
		empty := fyne.NewMenuItem("No strategies", nil)
		empty.Disabled = true
		return fyne.NewMenu("Strategies", empty)
	}

	items := make([]*fyne.MenuItem, 0, len(names))
	for _, name := range names {
		name := name
		label := name
		if name == current {
			label = checkMark + name
		}
		items = append(items, fyne.NewMenuItem(label, func() {
			a.runAsync("Start "+name, func() error {
				return a.core.StartStrategyByName(name, strategy.IpsetDefault)
			})
		}))
	}
	return fyne.NewMenu("Strategies", items...)
}

// checkUpdates refreshes the binary and applies every available strategy update.
func (a *App) checkUpdates() {
	a.runAsync("Update", func() error {
		ctx := context.Background()
		updated, err := a.core.UpdateBinary(ctx)
		if err != nil {
			return err
		}
		if updated {
			a.notify("Zapret", "winws.exe updated to the latest version")
		}

		scripts, err := a.core.CheckStrategyUpdates(ctx)
		if err != nil {
			return err
		}
		if len(scripts) == 0 {
			return nil
		}
		if err := a.core.ApplyStrategyUpdates(ctx, scripts); err != nil {
			return err
		}
		a.notify("Strategies updated", strings.Join(scripts, "\n"))
		return nil
	})
}
