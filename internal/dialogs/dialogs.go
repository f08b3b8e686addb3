// Package dialogs wraps fyne dialogs so they can be raised from any goroutine.
package dialogs

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"zapret-launcher/internal/debuglog"
)

// autoHideDelay is how long ShowAutoHideInfo keeps its dialog open.
const autoHideDelay = 2 * time.Second

// ShowError shows an error dialog to the user
func ShowError(window fyne.Window, err error) {
	debuglog.ErrorLog("dialog: %v", err)
	if window == nil {
		return
	}
	fyne.Do(func() {
		dialog.ShowError(err, window)
	})
}

// ShowInfo shows an information dialog to the user
func ShowInfo(window fyne.Window, title, message string) {
	if window == nil {
		return
	}
	fyne.Do(func() {
		dialog.ShowInformation(title, message, window)
	})
}

// ShowCustom shows a dialog with custom content
func ShowCustom(window fyne.Window, title, dismiss string, content fyne.CanvasObject) {
	fyne.Do(func() {
		dialog.ShowCustom(title, dismiss, content, window)
	})
}

// ShowConfirm asks a yes/no question; onConfirm receives the answer.
func ShowConfirm(window fyne.Window, title, message string, onConfirm func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, onConfirm, window)
	})
}

// Notify sends a desktop notification when enabled is true.
func Notify(app fyne.App, enabled bool, title, message string) {
	if !enabled || app == nil {
		return
	}
	app.SendNotification(&fyne.Notification{Title: title, Content: message})
}

// ShowAutoHideInfo shows a short-lived dialog over window.
func ShowAutoHideInfo(window fyne.Window, title, message string) {
	if window == nil {
		return
	}
	fyne.Do(func() {
		d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(message), window)
		d.Show()
		go func() {
			time.Sleep(autoHideDelay)
			fyne.Do(func() { d.Hide() })
		}()
	})
}
