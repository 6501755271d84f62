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

package display

import (
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/logger"
)

// SpriteState is the caller controlled state of a sprite.
type SpriteState struct {
	// index into the sprite table of the frame data. a negative index
	// disables the sprite
	Index int

	X int
	Y int

	Blend spec.BlendMode
}

// Enabled returns true if the sprite has a valid sprite table index.
func (s SpriteState) Enabled() bool {
	return s.Index >= 0
}

var disabledSprite = SpriteState{Index: -1}

type sprite struct {
	SpriteState

	header framedecode.SpriteHeader
	lines  []framedecode.SpriteLine
	data   []byte

	// the sprite data could not be loaded this frame
	failed bool
}

// load the sprite data for the current sprite table index. the lines and data
// slices are only reallocated when they are too small for the sprite
func (s *sprite) load(dec FrameDecoder) {
	s.failed = false
	if !s.Enabled() {
		return
	}

	hdr, err := dec.SpriteHeader(s.Index)
	if err != nil {
		s.failed = true
		logger.Log(logger.Allow, "display", err)
		return
	}
	s.header = hdr

	if cap(s.lines) < hdr.Height {
		s.lines = make([]framedecode.SpriteLine, hdr.Height)
	}
	s.lines = s.lines[:hdr.Height]

	if cap(s.data) < hdr.DataSize() {
		s.data = make([]byte, hdr.DataSize())
	}
	s.data = s.data[:hdr.DataSize()]

	if err := dec.Sprite(s.Index, hdr, s.lines, s.data); err != nil {
		s.failed = true
		logger.Log(logger.Allow, "display", err)
	}
}

// place adds a patch for every visible row of the sprite to the patch grid.
// rows are placed into the generation of the line buffer that their pair of
// lines will be fetched into
func (s *sprite) place(sh *shared) {
	if !s.Enabled() || s.failed {
		return
	}

	width := sh.cfg.Width
	size := s.header.Mode.PixelSize()

	for i, l := range s.lines {
		row := s.Y + i
		if row < 0 || row >= sh.cfg.Height {
			continue
		}

		start := s.X + l.Offset
		end := start + l.Width
		if end <= 0 || start >= width {
			continue
		}
		clipStart := max(start, 0)
		clipEnd := min(end, width)
		n := (clipEnd - clipStart) * size
		if n <= 0 {
			continue
		}

		// odd rows follow the even row of the pair in the line buffer
		dest := clipStart * size
		if row&1 == 1 {
			dest += width * sh.table[row-1].Mode().PixelSize()
		}

		slots := sh.grid[row*spec.MaxPatchesPerLine : (row+1)*spec.MaxPatchesPerLine]
		slot := -1
		for j := range slots {
			if slots[j].data == nil {
				slot = j
				break
			}
		}
		if slot == -1 {
			sh.overflows.Add(1)
			continue
		}

		src := l.DataStart + (clipStart-start)*size
		p := &slots[slot]
		p.data = s.data[src : src+n]
		p.dest = dest
		p.len = n
	}
}
