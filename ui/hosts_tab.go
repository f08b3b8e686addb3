package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/core/hosts"
	"zapret-launcher/internal/dialogs"
)

// selectedLines collects the entries of the chosen categories in document order.
func selectedLines(doc hosts.Document, selected []string) []string {
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}
	var lines []string
	for _, c := range doc.Categories {
		if chosen[c.Name] {
			lines = append(lines, c.Lines...)
		}
	}
	return lines
}

func categoryNames(doc hosts.Document) []string {
	names := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		names = append(names, c.Name)
	}
	return names
}

// CreateHostsTab creates the tab that manages the hosts override block.
func CreateHostsTab(a *App) fyne.CanvasObject {
	dateLabel := widget.NewLabel("Hosts list not loaded")
	categories := widget.NewCheckGroup(nil, nil)

	var doc hosts.Document

	loadButton := widget.NewButtonWithIcon("Load", theme.DownloadIcon(), func() {
		a.runAsync("Load hosts", func() error {
			loaded, err := a.core.FetchHosts(context.Background())
			if err != nil {
				return err
			}
			fyne.Do(func() {
				doc = loaded
				dateLabel.SetText(fmt.Sprintf("Last updated: %s", loaded.Date))
				categories.Options = categoryNames(loaded)
				categories.SetSelected(categories.Options)
				categories.Refresh()
			})
			return nil
		})
	})

	applyButton := widget.NewButtonWithIcon("Apply selected", theme.ConfirmIcon(), func() {
		lines := selectedLines(doc, categories.Selected)
		if len(lines) == 0 {
			dialogs.ShowInfo(a.window, "Hosts", "Load the list and select at least one category")
			return
		}
		a.runAsync("Apply hosts", func() error {
			if err := a.core.SaveHostsSelection(lines); err != nil {
				return err
			}
			dialogs.ShowAutoHideInfo(a.window, "Hosts", "Hosts file updated")
			return nil
		})
	})

	removeButton := widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), func() {
		dialogs.ShowConfirm(a.window, "Hosts", "Remove the managed block from the hosts file?", func(ok bool) {
			if !ok {
				return
			}
			a.runAsync("Remove hosts", func() error {
				if err := a.core.RemoveHosts(); err != nil {
					return err
				}
				dialogs.ShowAutoHideInfo(a.window, "Hosts", "Hosts block removed")
				return nil
			})
		})
	})

	top := container.NewVBox(
		container.NewHBox(loadButton, applyButton, removeButton),
		dateLabel,
		widget.NewSeparator(),
	)
	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(categories))
}
