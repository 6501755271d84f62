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
	"github.com/jetsetilly/picostick/hardware/spec"
)

type mover struct {
	x, y   int
	dx, dy int
	size   int
}

// Bouncer moves the pattern's sprites around the frame and scrolls the
// pattern.
type Bouncer struct {
	disp Display
	pat  Pattern

	movers []mover
	scroll int32
}

// NewBouncer is the preferred method of initialisation for the Bouncer type.
// Sprite slots are allocated in the same order as the pattern's sprites.
func NewBouncer(disp Display, pat Pattern) (*Bouncer, error) {
	b := &Bouncer{
		disp: disp,
		pat:  pat,
	}

	for i, idx := range pat.Sprites {
		if i >= spec.MaxSprites {
			break
		}
		def := defaultSprites[i%len(defaultSprites)]
		m := mover{
			x:    (pat.Width / (len(pat.Sprites) + 1)) * (i + 1),
			y:    (pat.Height / 3) + i*def.size,
			dx:   1 + i,
			dy:   2 - i%3,
			size: def.size,
		}
		if m.dy == 0 {
			m.dy = 1
		}

		blend := spec.BlendCopy
		if i%2 == 1 {
			blend = spec.BlendBlend
		}
		if err := disp.SetSprite(i, idx, m.x, m.y, blend); err != nil {
			return nil, err
		}
		b.movers = append(b.movers, m)
	}

	return b, nil
}

// Frame moves every sprite by one frame's worth of movement.
func (b *Bouncer) Frame(_ int) error {
	for i := range b.movers {
		m := &b.movers[i]
		m.x += m.dx
		m.y += m.dy

		// sprites bounce off the edges but may overhang by half their size
		if m.x < -m.size/2 || m.x > b.pat.Width-m.size/2 {
			m.dx = -m.dx
			m.x += m.dx * 2
		}
		if m.y < -m.size/2 || m.y > b.pat.Height-m.size/2 {
			m.dy = -m.dy
			m.y += m.dy * 2
		}

		if err := b.disp.MoveSprite(i, m.x, m.y); err != nil {
			return err
		}
	}

	b.scroll += 2
	if b.scroll >= int32(b.pat.LineLength) {
		b.scroll = 0
	}
	return b.disp.SetFrameDataAddressOffset(ScrollPlane, b.scroll)
}

// Position returns the current position of a sprite slot.
func (b *Bouncer) Position(i int) (int, int) {
	if i < 0 || i >= len(b.movers) {
		return 0, 0
	}
	return b.movers[i].x, b.movers[i].y
}
