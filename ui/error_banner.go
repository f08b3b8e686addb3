package ui

import (
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var bannerColor = color.NRGBA{R: 255, G: 200, B: 200, A: 255}

// binaryBanner warns while the bypass binary is missing from the data root.
type binaryBanner struct {
	box  *fyne.Container
	path string
}

func newBinaryBanner(path string) *binaryBanner {
	text := widget.NewLabel("winws.exe not found. Use \"Check for updates\" to download it.")
	text.Wrapping = fyne.TextWrapWord
	text.Alignment = fyne.TextAlignCenter

	rect := canvas.NewRectangle(bannerColor)
	rect.SetMinSize(fyne.NewSize(0, 40))

	b := &binaryBanner{box: container.NewStack(rect, container.NewPadded(text)), path: path}
	b.refresh()
	return b
}

// refresh shows the banner only while the binary is absent.
func (b *binaryBanner) refresh() {
	if _, err := os.Stat(b.path); err != nil {
		b.box.Show()
		return
	}
	b.box.Hide()
}
