package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/core/remote"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/platform"
)

// ipCheckSites are external pages that show the visible address and blocking status.
var ipCheckSites = []struct{ Label, URL string }{
	{"2ip.ru", "https://2ip.ru"},
	{"2ip.io", "https://2ip.io"},
	{"ipinfo.io", "https://ipinfo.io"},
}

// CreateDiagnosticsTab creates the network diagnostics tab.
func CreateDiagnosticsTab(a *App) fyne.CanvasObject {
	serverEntry := widget.NewEntry()
	serverEntry.SetText(constants.DefaultSTUNServer)

	resultLabel := widget.NewLabel("")
	resultLabel.Wrapping = fyne.TextWrapWord

	var stunButton *widget.Button
	stunButton = widget.NewButtonWithIcon("Check STUN", theme.SearchIcon(), func() {
		server := strings.TrimSpace(serverEntry.Text)
		stunButton.Disable()
		resultLabel.SetText("Checking...")
		go func() {
			addr, err := a.core.CheckSTUN(server)
			fyne.Do(func() {
				stunButton.Enable()
				switch {
				case err == nil:
					resultLabel.SetText(fmt.Sprintf("External address: %s", addr))
				case remote.IsNetworkError(err):
					resultLabel.SetText("Network error: " + remote.GetNetworkErrorMessage(err))
				default:
					resultLabel.SetText("Error: " + err.Error())
				}
			})
			if err != nil {
				debuglog.WarnLog("CheckSTUN %s: %v", server, err)
			}
		}()
	})

	links := container.NewHBox()
	for _, site := range ipCheckSites {
		url := site.URL
		links.Add(widget.NewButton(site.Label, func() {
			if err := platform.OpenURL(url); err != nil {
				debuglog.ErrorLog("OpenURL %s: %v", url, err)
			}
		}))
	}

	return container.NewVBox(
		widget.NewLabelWithStyle("STUN", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, stunButton, serverEntry),
		resultLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("IP check", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		links,
	)
}
