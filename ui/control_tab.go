package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/core/strategy"
)

const (
	ipsetDefaultOption = "ipset-all (default)"
	ipsetNoneOption    = "none"
	ipsetAnyOption     = "any"
)

// ipsetOptions lists the selector choices: the built-ins followed by custom ipsets.
func ipsetOptions(custom []string) []string {
	return append([]string{ipsetDefaultOption, ipsetNoneOption, ipsetAnyOption}, custom...)
}

// selectorFromOption maps an ipset choice back to its selector.
func selectorFromOption(option string) strategy.IpsetSelector {
	switch option {
	case "", ipsetDefaultOption:
		return strategy.IpsetDefault
	case ipsetNoneOption:
		return strategy.IpsetNone
	case ipsetAnyOption:
		return strategy.IpsetAny
	default:
		return strategy.IpsetSelector(option)
	}
}

// CreateControlTab creates the strategy start/stop tab with the user log.
func CreateControlTab(a *App) fyne.CanvasObject {
	currentLabel := widget.NewLabel("")
	currentLabel.TextStyle = fyne.TextStyle{Bold: true}

	strategySelect := widget.NewSelect(nil, nil)
	strategySelect.PlaceHolder = "Select strategy"

	ipsetSelect := widget.NewSelect(nil, nil)

	startButton := widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		name := strategySelect.Selected
		if name == "" {
			return
		}
		sel := selectorFromOption(ipsetSelect.Selected)
		a.runAsync("Start "+name, func() error {
			return a.core.StartStrategyByName(name, sel)
		})
	})
	stopButton := widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() {
		a.runAsync("Stop", a.core.StopStrategy)
	})

	gameFilter := widget.NewCheck("Game filter (wide UDP/TCP port range)", nil)
	onGameFilter := func(enabled bool) {
		a.runAsync("Game filter", func() error { return a.core.SetGameFilter(enabled) })
	}
	gameFilter.OnChanged = onGameFilter

	openStrategies := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		a.runAsync("Open strategies folder", a.core.OpenStrategiesDir)
	})

	banner := newBinaryBanner(a.core.Paths.Binary())

	refresh := func() {
		banner.refresh()
		current := a.core.CurrentStrategy()
		currentLabel.SetText("Active strategy: " + current)

		names := a.core.ListStrategies()
		strategySelect.Options = names
		if strategySelect.Selected != "" && !contains(names, strategySelect.Selected) {
			strategySelect.ClearSelected()
		}
		if strategySelect.Selected == "" && contains(names, current) {
			strategySelect.SetSelected(current)
		}
		strategySelect.Refresh()

		ipsetSelect.Options = ipsetOptions(a.core.CustomIpsets())
		if ipsetSelect.Selected == "" || !contains(ipsetSelect.Options, ipsetSelect.Selected) {
			ipsetSelect.SetSelected(ipsetDefaultOption)
		}
		ipsetSelect.Refresh()

		gameFilter.OnChanged = nil
		gameFilter.SetChecked(a.core.GameFilter.Enabled())
		gameFilter.OnChanged = onGameFilter
	}
	a.onRefresh(refresh)
	refresh()

	top := container.NewVBox(
		banner.box,
		currentLabel,
		container.NewBorder(nil, nil, nil, openStrategies, strategySelect),
		container.NewBorder(nil, nil, widget.NewLabel("Ipset:"), nil, ipsetSelect),
		container.NewGridWithColumns(2, startButton, stopButton),
		gameFilter,
		widget.NewSeparator(),
		widget.NewLabel("Log"),
	)
	return container.NewBorder(top, nil, nil, nil, a.logView.Widget())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
