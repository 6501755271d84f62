// This file is part of Picostick.
//
// Picostick is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Picostick is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Picostick.  If not, see <https://www.gnu.org/licenses/>.

// Package viewer shows the output of the display driver in a window.
package viewer

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/jetsetilly/picostick/capture"
)

// Viewer implements the ebiten.Game interface.
type Viewer struct {
	ctx context.Context
	cap *capture.Capture

	width  int
	height int
	pix    []byte

	// returns text to be drawn over the image. may be nil
	status func() string
	overlay bool
}

// NewViewer is the preferred method of initialisation for the Viewer type.
func NewViewer(ctx context.Context, c *capture.Capture, width int, height int, status func() string) *Viewer {
	return &Viewer{
		ctx:     ctx,
		cap:     c,
		width:   width,
		height:  height,
		pix:     make([]byte, width*height*4),
		status:  status,
		overlay: status != nil,
	}
}

// Update implements the ebiten.Game interface.
func (v *Viewer) Update() error {
	if v.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if ebiten.IsKeyPressed(ebiten.KeyF1) {
		v.overlay = v.status != nil
	} else if ebiten.IsKeyPressed(ebiten.KeyF2) {
		v.overlay = false
	}
	return nil
}

// Draw implements the ebiten.Game interface.
func (v *Viewer) Draw(screen *ebiten.Image) {
	v.cap.LatestPixels(v.pix)
	screen.WritePixels(v.pix)
	if v.overlay {
		ebitenutil.DebugPrint(screen, v.status())
	}
}

// Layout implements the ebiten.Game interface. The screen is always the size
// of the frame and is scaled to fit the window.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

// Run opens the window and blocks until it is closed or the context is
// cancelled. Must be called from the main goroutine.
func (v *Viewer) Run(scale int) error {
	ebiten.SetWindowTitle("picostick")
	ebiten.SetWindowSize(v.width*max(scale, 1), v.height*max(scale, 1))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
