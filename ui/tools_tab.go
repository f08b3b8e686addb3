package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/dialogs"
)

// CreateToolsTab creates the lists editor together with the ipset and maintenance tools.
func CreateToolsTab(a *App) fyne.CanvasObject {
	return container.NewAppTabs(
		container.NewTabItem("Editor", createListEditor(a)),
		container.NewTabItem("Ipset", createIpsetTools(a)),
		container.NewTabItem("Maintenance", createMaintenanceTools(a)),
	)
}

func createListEditor(a *App) fyne.CanvasObject {
	editor := widget.NewMultiLineEntry()
	editor.Wrapping = fyne.TextWrapOff
	editor.Disable()

	fileSelect := widget.NewSelect(nil, func(name string) {
		if name == "" {
			return
		}
		go func() {
			content, err := a.core.ReadList(name)
			if err != nil {
				dialogs.ShowError(a.window, err)
				return
			}
			fyne.Do(func() {
				editor.SetText(content)
				editor.Enable()
			})
		}()
	})
	fileSelect.PlaceHolder = "Select list"

	saveButton := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		name := fileSelect.Selected
		if name == "" {
			return
		}
		content := editor.Text
		a.runAsync("Save "+name, func() error {
			if err := a.core.SaveList(name, content); err != nil {
				return err
			}
			dialogs.ShowAutoHideInfo(a.window, "Lists", name+" saved")
			return nil
		})
	})

	refresh := func() {
		fileSelect.Options = a.core.ListFiles()
		fileSelect.Refresh()
	}
	a.onRefresh(refresh)
	refresh()

	return container.NewBorder(
		container.NewBorder(nil, nil, nil, saveButton, fileSelect),
		nil, nil, nil,
		editor,
	)
}

func createIpsetTools(a *App) fyne.CanvasObject {
	targetSelect := widget.NewSelect(nil, nil)

	ipEntry := widget.NewEntry()
	ipEntry.SetPlaceHolder("203.0.113.7")
	addIPButton := widget.NewButtonWithIcon("Add /24", theme.ContentAddIcon(), func() {
		file, ip := targetSelect.Selected, strings.TrimSpace(ipEntry.Text)
		if file == "" || ip == "" {
			return
		}
		a.runAsync("Add IP", func() error {
			if err := a.core.AddIP(file, ip); err != nil {
				return err
			}
			fyne.Do(func() { ipEntry.SetText("") })
			return nil
		})
	})

	hostEntry := widget.NewEntry()
	hostEntry.SetPlaceHolder("play.example.net")
	resultLabel := widget.NewLabel("")
	resolveButton := widget.NewButtonWithIcon("Resolve and add", theme.SearchIcon(), func() {
		file, host := targetSelect.Selected, strings.TrimSpace(hostEntry.Text)
		if file == "" || host == "" {
			return
		}
		a.runAsync("Resolve "+host, func() error {
			entry, err := a.core.ResolveToIpset(context.Background(), host, file)
			if err != nil {
				return err
			}
			fyne.Do(func() { resultLabel.SetText(fmt.Sprintf("%s -> %s added to %s", host, entry, file)) })
			return nil
		})
	})

	openButton := widget.NewButtonWithIcon("Open ipset folder", theme.FolderOpenIcon(), func() {
		a.runAsync("Open ipset folder", a.core.OpenIpsetDir)
	})

	refresh := func() {
		targetSelect.Options = append([]string{constants.IpsetAllFileName}, a.core.CustomIpsets()...)
		if targetSelect.Selected == "" {
			targetSelect.SetSelected(constants.IpsetAllFileName)
		}
		targetSelect.Refresh()
	}
	a.onRefresh(refresh)
	refresh()

	return container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Target:"), nil, targetSelect),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, addIPButton, ipEntry),
		container.NewBorder(nil, nil, nil, resolveButton, hostEntry),
		resultLabel,
		widget.NewSeparator(),
		openButton,
	)
}

func createMaintenanceTools(a *App) fyne.CanvasObject {
	convertButton := widget.NewButtonWithIcon("Convert .bat script", theme.FileIcon(), func() {
		open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialogs.ShowError(a.window, err)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			_ = reader.Close()
			a.runAsync("Convert", func() error {
				created, err := a.core.ConvertScripts([]string{path})
				if err != nil {
					return err
				}
				dialogs.ShowAutoHideInfo(a.window, "Convert", fmt.Sprintf("Created: %s", strings.Join(created, ", ")))
				return nil
			})
		}, a.window)
		open.SetFilter(storage.NewExtensionFileFilter([]string{constants.BatExtension}))
		open.Show()
	})

	syncButton := widget.NewButtonWithIcon("Restore bundled files", theme.ViewRefreshIcon(), func() {
		a.runAsync("Sync", a.core.SyncBundle)
	})

	updateButton := widget.NewButtonWithIcon("Check for updates", theme.DownloadIcon(), func() {
		a.checkUpdates()
	})

	openStrategies := widget.NewButtonWithIcon("Open strategies folder", theme.FolderOpenIcon(), func() {
		a.runAsync("Open strategies folder", a.core.OpenStrategiesDir)
	})

	return container.NewVBox(convertButton, updateButton, syncButton, openStrategies)
}
