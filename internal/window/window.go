//go:build !tinygo

// Package window shows the carousel in a desktop window.
package window

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/teranos/carousel/internal/host"
)

// Run opens a window that displays the host's frames and forwards keyboard
// and mouse input. It blocks until the window closes.
func Run(h *host.Host, title string) error {
	b := h.Bounds()
	g := &game{h: h}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type game struct {
	h     *host.Host
	frame *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.h.Request(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.h.Request(+1)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.h.Click(ebiten.CursorPosition())
	}
	g.h.Step(time.Now())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.h.Frame()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if g.frame == nil || g.frame.Bounds().Dx() != w || g.frame.Bounds().Dy() != h {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(w, h)
	}
	g.frame.WritePixels(img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.h.Bounds()
	if outsideWidth != b.Dx() || outsideHeight != b.Dy() {
		g.h.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
