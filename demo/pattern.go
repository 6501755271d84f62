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

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// ScrollPlane is the scroll plane used by every line of the pattern.
const ScrollPlane = 0

// the value component of the pattern cycles over this many lines
const valueBands = 20

// number of frames in the pattern. the second frame is the first frame upside
// down
const patternFrames = 2

// default frame divider for the pattern
const patternDivider = 60

// Pattern describes what was written by WritePattern().
type Pattern struct {
	Width  int
	Height int

	// byte length of a line of pixels. the largest useful scroll offset
	LineLength int

	// indexes into the sprite table
	Sprites []int
}

// WritePattern writes the complete frame data for the demo pattern.
func WritePattern(mem framedecode.MemoryWriter, width int, height int) (Pattern, error) {
	if width <= 0 || height <= 0 || width > spec.MaxFrameWidth || height > spec.MaxFrameHeight {
		return Pattern{}, curated.Errorf("demo: unsupported frame size (%dx%d)", width, height)
	}

	b := framedecode.NewBuilder(mem, width, height, patternFrames, patternDivider)

	pat := Pattern{
		Width:      width,
		Height:     height,
		LineLength: width * spec.ModeRGB565.PixelSize(),
	}

	line := make([]byte, pat.LineLength*2)
	for y := range height {
		for x := range width {
			px := FromHSV(float64(x)/float64(width), float64(y)/float64(height), float64(y%valueBands)/valueBands)
			binary.LittleEndian.PutUint16(line[x*2:], px)
			binary.LittleEndian.PutUint16(line[pat.LineLength+x*2:], px)
		}
		addr := b.Data(line)
		b.SetLine(0, y, framedecode.NewFrameTableEntry(addr, spec.ModeRGB565, ScrollPlane+1))
		b.SetLine(1, height-1-y, framedecode.NewFrameTableEntry(addr, spec.ModeRGB565, ScrollPlane+1))
	}

	for _, s := range defaultSprites {
		idx, err := b.AddSprite(s.build())
		if err != nil {
			return Pattern{}, err
		}
		pat.Sprites = append(pat.Sprites, idx)
	}

	b.Commit()

	return pat, nil
}
