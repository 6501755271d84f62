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

package demo

import (
	"encoding/binary"
	"math"

	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/spec"
)

type shape int

const (
	shapeBall shape = iota
	shapeDiamond
	shapeBlock
)

type spriteDef struct {
	shape  shape
	size   int
	colour uint16
}

var defaultSprites = []spriteDef{
	{shape: shapeBall, size: 32, colour: RGB565(0xff, 0xff, 0xff)},
	{shape: shapeBall, size: 24, colour: RGB565(0xff, 0x40, 0x40)},
	{shape: shapeDiamond, size: 31, colour: RGB565(0x40, 0xff, 0x40)},
	{shape: shapeBlock, size: 16, colour: RGB565(0x20, 0x20, 0x20)},
}

// span returns the first pixel and the width of row y of the shape
func (d spriteDef) span(y int) (int, int) {
	switch d.shape {
	case shapeBall:
		r := float64(d.size) / 2
		dy := float64(y) + 0.5 - r
		half := math.Sqrt(max(r*r-dy*dy, 0))
		start := int(math.Round(r - half))
		return start, d.size - start*2
	case shapeDiamond:
		mid := d.size / 2
		half := mid - abs(y-mid)
		return mid - half, half*2 + 1
	}
	return 0, d.size
}

// build the header, row descriptions and payload. each row of the payload is
// stored at the full width of the sprite and the row description selects the
// visible span
func (d spriteDef) build() (framedecode.SpriteHeader, []framedecode.SpriteLine, []byte) {
	hdr := framedecode.SpriteHeader{
		Width:  d.size,
		Height: d.size,
		Mode:   spec.ModeRGB565,
	}

	lines := make([]framedecode.SpriteLine, d.size)
	payload := make([]byte, hdr.DataSize())

	for y := range d.size {
		start, width := d.span(y)
		row := y * d.size * 2
		lines[y] = framedecode.SpriteLine{
			Offset:    start,
			Width:     width,
			DataStart: row + start*2,
		}

		// shade towards the bottom of the sprite
		c := d.colour
		if y > d.size*3/4 {
			c = (c >> 1) & 0x7bef
		}
		for x := range d.size {
			binary.LittleEndian.PutUint16(payload[row+x*2:], c)
		}
	}

	return hdr, lines, payload
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
