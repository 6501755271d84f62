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

package framedecode_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/psram"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/test"
)

func TestFrameTableEntry(t *testing.T) {
	e := framedecode.NewFrameTableEntry(0x7ffffc, spec.ModeRGB888, 2)
	test.ExpectEquality(t, e.Address(), uint32(0x7ffffc))
	test.ExpectEquality(t, e.Mode(), spec.ModeRGB888)
	idx, ok := e.ScrollPlane()
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, idx, 1)

	e = framedecode.NewFrameTableEntry(0x1000, spec.ModePalette, 0)
	_, ok = e.ScrollPlane()
	test.ExpectEquality(t, ok, false)
}

func TestHeaders(t *testing.T) {
	mem := psram.NewPSRAM()
	dec := framedecode.NewDecoder(mem)

	// empty memory has no magic
	err := dec.ReadHeaders()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, "framedecode: bad magic (%#08x)"), true)

	b := framedecode.NewBuilder(mem, 640, 480, 2, 4)
	b.Commit()
	test.ExpectSuccess(t, dec.ReadHeaders())

	cfg := dec.Config()
	test.ExpectEquality(t, cfg.Width, 640)
	test.ExpectEquality(t, cfg.Height, 480)
	test.ExpectEquality(t, cfg.NumFrames, 2)
	test.ExpectEquality(t, cfg.FrameDivider, 4)
	test.ExpectEquality(t, cfg.NumSprites, 0)

	// a header describing an unsupported frame is rejected and the previous
	// configuration is kept
	framedecode.NewBuilder(mem, 1024, 768, 1, 0).Commit()
	err = dec.ReadHeaders()
	test.ExpectEquality(t, curated.Is(err, "framedecode: unsupported frame size (%dx%d)"), true)
	test.ExpectEquality(t, dec.Config().Width, 640)
}

func TestFrameTable(t *testing.T) {
	mem := psram.NewPSRAM()
	b := framedecode.NewBuilder(mem, 320, 240, 2, 0)
	for f := 0; f < 2; f++ {
		for l := 0; l < 240; l++ {
			b.SetLine(f, l, framedecode.NewFrameTableEntry(uint32(0x10000+f*0x40000+l*640), spec.ModeRGB565, f))
		}
	}
	b.Commit()

	dec := framedecode.NewDecoder(mem)
	test.DemandSuccess(t, dec.ReadHeaders())

	table := make([]framedecode.FrameTableEntry, spec.MaxFrameHeight)
	test.ExpectSuccess(t, dec.FrameTable(1, table))
	test.ExpectEquality(t, table[10].Address(), uint32(0x10000+0x40000+10*640))
	_, ok := table[10].ScrollPlane()
	test.ExpectEquality(t, ok, true)

	// frame numbers wrap
	test.ExpectSuccess(t, dec.FrameTable(2, table))
	test.ExpectEquality(t, table[10].Address(), uint32(0x10000+10*640))

	test.ExpectFailure(t, dec.FrameTable(0, table[:100]))
}

func TestSprite(t *testing.T) {
	mem := psram.NewPSRAM()
	b := framedecode.NewBuilder(mem, 320, 240, 1, 0)

	hdr := framedecode.SpriteHeader{Width: 4, Height: 2, Mode: spec.ModeRGB565}
	lines := []framedecode.SpriteLine{
		{Offset: -2, Width: 4, DataStart: 0},
		{Offset: 1, Width: 2, DataStart: 8},
	}
	payload := make([]byte, hdr.DataSize())
	for i := range payload {
		payload[i] = byte(i + 1)
	}

	idx, err := b.AddSprite(hdr, lines, payload)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, idx, 0)

	_, err = b.AddSprite(hdr, lines[:1], payload)
	test.ExpectFailure(t, err)

	b.Commit()

	dec := framedecode.NewDecoder(mem)
	test.DemandSuccess(t, dec.ReadHeaders())
	test.ExpectEquality(t, dec.Config().NumSprites, 1)

	h, err := dec.SpriteHeader(0)
	test.DemandSuccess(t, err)
	if diff := deep.Equal(h, hdr); diff != nil {
		t.Error(diff)
	}

	gotLines := make([]framedecode.SpriteLine, h.Height)
	gotData := make([]byte, h.DataSize())
	test.ExpectSuccess(t, dec.Sprite(0, h, gotLines, gotData))
	if diff := deep.Equal(gotLines, lines); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(gotData, payload); diff != nil {
		t.Error(diff)
	}

	_, err = dec.SpriteHeader(1)
	test.ExpectEquality(t, curated.Is(err, "framedecode: no sprite %d"), true)
}
