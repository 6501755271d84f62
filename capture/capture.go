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

// Package capture records the video signal produced by the serialiser as
// images. It implements the dvi.Sink interface.
package capture

import (
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/hardware/tmds"
)

// Capture decodes scanlines into images. The image being built is separate
// from the most recently completed image so that the completed image is never
// seen half drawn.
type Capture struct {
	width  int
	height int

	// only used by the serialiser goroutine
	working *image.RGBA
	rgb     [spec.MaxFrameWidth * 3]byte

	crit   sync.Mutex
	latest *image.RGBA
	frames int

	// closed and replaced at the end of every frame
	update chan struct{}
}

// NewCapture is the preferred method of initialisation for the Capture type.
func NewCapture(width int, height int) *Capture {
	return &Capture{
		width:   width,
		height:  height,
		working: image.NewRGBA(image.Rect(0, 0, width, height)),
		latest:  image.NewRGBA(image.Rect(0, 0, width, height)),
		update:  make(chan struct{}),
	}
}

// Scanline implements the dvi.Sink interface.
func (c *Capture) Scanline(s *dvi.Scanline) {
	if s.Line < 0 || s.Line >= c.height {
		return
	}
	w := min(s.Width, c.width)
	tmds.DecodeScanline(s.Symbols[:], w, c.rgb[:])

	row := c.working.Pix[s.Line*c.working.Stride:]
	for x := 0; x < w; x++ {
		row[x*4] = c.rgb[x*3]
		row[x*4+1] = c.rgb[x*3+1]
		row[x*4+2] = c.rgb[x*3+2]
		row[x*4+3] = 0xff
	}
}

// VSync implements the dvi.Sink interface.
func (c *Capture) VSync(_ int) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.working, c.latest = c.latest, c.working
	c.frames++
	close(c.update)
	c.update = make(chan struct{})
}

// Frames returns the number of completed frames.
func (c *Capture) Frames() int {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.frames
}

// Latest returns a copy of the most recently completed frame.
func (c *Capture) Latest() *image.RGBA {
	c.crit.Lock()
	defer c.crit.Unlock()
	img := image.NewRGBA(c.latest.Rect)
	copy(img.Pix, c.latest.Pix)
	return img
}

// LatestPixels copies the most recently completed frame into pix, which
// should be at least width*height*4 bytes.
func (c *Capture) LatestPixels(pix []byte) {
	c.crit.Lock()
	defer c.crit.Unlock()
	copy(pix, c.latest.Pix)
}

// Wait blocks until at least n frames have been completed.
func (c *Capture) Wait(ctx context.Context, n int) error {
	for {
		c.crit.Lock()
		frames := c.frames
		update := c.update
		c.crit.Unlock()

		if frames >= n {
			return nil
		}

		select {
		case <-update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Scale an image by an integer factor. Pixels are repeated rather than
// interpolated.
func Scale(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG writes the most recently completed frame as a PNG image.
func (c *Capture) WritePNG(w io.Writer, scale int) error {
	if err := png.Encode(w, Scale(c.Latest(), scale)); err != nil {
		return curated.Errorf("capture: %v", err)
	}
	return nil
}

// SavePNG writes the most recently completed frame to a file.
func (c *Capture) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("capture: %v", err)
	}
	defer f.Close()
	return c.WritePNG(f, scale)
}
