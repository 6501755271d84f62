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
	"testing"

	"github.com/go-test/deep"

	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/test"
)

func TestSpriteClippedLeft(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	idx := f.addSprite(t, 20, 1, 0xa5)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	s := &sh.sprites[0]
	s.SpriteState = SpriteState{Index: idx, X: -10, Y: 0}
	s.load(sh.dec)
	s.place(sh)

	p := patches(sh, 0)
	test.DemandEquality(t, len(p), 1)
	test.ExpectEquality(t, p[0].dest, 0)
	test.ExpectEquality(t, p[0].len, 20)

	// the first ten columns of the sprite are clipped
	if diff := deep.Equal(p[0].data, f.sprites[idx].payload[20:40]); diff != nil {
		t.Error(diff)
	}
}

func TestSpriteClippedRight(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	idx := f.addSprite(t, 20, 2, 0x11)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	s := &sh.sprites[0]
	s.SpriteState = SpriteState{Index: idx, X: 630, Y: 6}
	s.load(sh.dec)
	s.place(sh)

	// even row
	p := patches(sh, 6)
	test.DemandEquality(t, len(p), 1)
	test.ExpectEquality(t, p[0].dest, 630*2)
	test.ExpectEquality(t, p[0].len, 20)

	// odd rows are offset by the length of the even line in the line buffer
	p = patches(sh, 7)
	test.DemandEquality(t, len(p), 1)
	test.ExpectEquality(t, p[0].dest, 640*2+630*2)
	test.ExpectEquality(t, p[0].len, 20)
	if diff := deep.Equal(p[0].data, f.sprites[idx].payload[40:60]); diff != nil {
		t.Error(diff)
	}
}

func TestSpriteOffscreen(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	idx := f.addSprite(t, 20, 4, 0x22)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	place := func(x int, y int) {
		s := &sh.sprites[0]
		s.SpriteState = SpriteState{Index: idx, X: x, Y: y}
		s.load(sh.dec)
		s.place(sh)
	}

	// entirely to the left and entirely to the right
	place(-20, 0)
	place(640, 0)
	for row := 0; row < 4; row++ {
		test.ExpectEquality(t, len(patches(sh, row)), 0)
	}

	// partly above and partly below the frame
	place(0, -2)
	test.ExpectEquality(t, len(patches(sh, 0)), 1)
	test.ExpectEquality(t, len(patches(sh, 1)), 1)
	place(0, 478)
	test.ExpectEquality(t, len(patches(sh, 478)), 1)
	test.ExpectEquality(t, len(patches(sh, 479)), 1)
}

func TestSpriteDisabled(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	f.addSprite(t, 20, 4, 0x22)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	s := &sh.sprites[0]
	s.SpriteState = disabledSprite
	s.load(sh.dec)
	s.place(sh)
	for row := 0; row < 4; row++ {
		test.ExpectEquality(t, len(patches(sh, row)), 0)
	}

	// a sprite table index that doesn't exist disables the sprite for the
	// frame
	s.SpriteState = SpriteState{Index: 5}
	s.load(sh.dec)
	test.ExpectEquality(t, s.failed, true)
	s.place(sh)
	for row := 0; row < 4; row++ {
		test.ExpectEquality(t, len(patches(sh, row)), 0)
	}
}

func TestPatchOverflow(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	idx := f.addSprite(t, 8, 1, 0x33)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	for i := 0; i < spec.MaxPatchesPerLine+1; i++ {
		s := &sh.sprites[0]
		s.SpriteState = SpriteState{Index: idx, X: i * 10, Y: 12}
		s.load(sh.dec)
		s.place(sh)
	}

	// every slot is used and the newest fragment is the one dropped
	p := patches(sh, 12)
	test.ExpectEquality(t, len(p), spec.MaxPatchesPerLine)
	test.ExpectEquality(t, p[len(p)-1].dest, (spec.MaxPatchesPerLine-1)*10*2)
	test.ExpectEquality(t, sh.overflows.Load(), int64(1))
}

func TestSpriteBuffersReused(t *testing.T) {
	f := newFixture(640, 480, 1, 0)
	big := f.addSprite(t, 16, 16, 0x44)
	small := f.addSprite(t, 4, 4, 0x55)
	d, _ := newTestDriver(t, f)
	sh := resolve(t, d)

	s := &sh.sprites[0]
	s.SpriteState = SpriteState{Index: big}
	s.load(sh.dec)
	data := &s.data[0]

	s.SpriteState = SpriteState{Index: small}
	s.load(sh.dec)
	test.ExpectEquality(t, &s.data[0], data)
	test.ExpectEquality(t, len(s.data), 4*4*2)
	test.ExpectEquality(t, len(s.lines), 4)
}
