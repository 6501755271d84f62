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

package demo_test

import (
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/go-test/deep"

	"github.com/jetsetilly/picostick/demo"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/psram"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/test"
)

// records calls made to the display
type mockDisplay struct {
	calls     []string
	heartbeat bool
	fail      bool
}

func (m *mockDisplay) SetSprite(i int, idx int, x int, y int, blend spec.BlendMode) error {
	m.calls = append(m.calls, fmt.Sprintf("set %d %d %d %d %s", i, idx, x, y, blend))
	if m.fail {
		return fmt.Errorf("no sprite %d", i)
	}
	return nil
}

func (m *mockDisplay) MoveSprite(i int, x int, y int) error {
	m.calls = append(m.calls, fmt.Sprintf("move %d %d %d", i, x, y))
	return nil
}

func (m *mockDisplay) ClearSprite(i int) error {
	m.calls = append(m.calls, fmt.Sprintf("clear %d", i))
	return nil
}

func (m *mockDisplay) SetFrameDataAddressOffset(plane int, offset int32) error {
	m.calls = append(m.calls, fmt.Sprintf("offset %d %d", plane, offset))
	return nil
}

func (m *mockDisplay) EnableHeartbeat(enable bool) {
	m.heartbeat = enable
}

func TestFromHSV(t *testing.T) {
	test.ExpectEquality(t, demo.FromHSV(0, 1, 1), 0xf800)
	test.ExpectEquality(t, demo.FromHSV(0.5, 1, 1), 0x07ff)
	test.ExpectEquality(t, demo.FromHSV(0.25, 0, 1), 0xffff)
	test.ExpectEquality(t, demo.FromHSV(0.75, 1, 0), 0x0000)
	test.ExpectEquality(t, demo.RGB565(0xff, 0x00, 0xff), 0xf81f)
}

func TestPattern(t *testing.T) {
	mem := psram.NewPSRAM()
	pat, err := demo.WritePattern(mem, 320, 240)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pat.LineLength, 640)
	test.ExpectEquality(t, len(pat.Sprites), 4)

	dec := framedecode.NewDecoder(mem)
	test.DemandSuccess(t, dec.ReadHeaders())

	cfg := dec.Config()
	test.ExpectEquality(t, cfg.Width, 320)
	test.ExpectEquality(t, cfg.Height, 240)
	test.ExpectEquality(t, cfg.NumFrames, 2)
	test.ExpectEquality(t, cfg.NumSprites, 4)

	frame0 := make([]framedecode.FrameTableEntry, 240)
	frame1 := make([]framedecode.FrameTableEntry, 240)
	test.DemandSuccess(t, dec.FrameTable(0, frame0))
	test.DemandSuccess(t, dec.FrameTable(1, frame1))

	for y := range 240 {
		test.ExpectEquality(t, frame0[y].Mode(), spec.ModeRGB565)
		plane, ok := frame0[y].ScrollPlane()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, plane, demo.ScrollPlane)
		test.ExpectEquality(t, frame1[239-y].Address(), frame0[y].Address())
	}

	// each line is stored twice so that scrolling never reads past the line
	line := make([]byte, pat.LineLength*2)
	mem.Read(frame0[100].Address(), line)
	test.ExpectEquality(t, string(line[:pat.LineLength]), string(line[pat.LineLength:]))

	px := binary.LittleEndian.Uint16(line[0:])
	test.ExpectEquality(t, px, demo.FromHSV(0, 100.0/240.0, 0))
	px = binary.LittleEndian.Uint16(line[160*2:])
	test.ExpectEquality(t, px, demo.FromHSV(0.5, 100.0/240.0, 0))

	mem.Read(frame0[119].Address(), line)
	px = binary.LittleEndian.Uint16(line[0:])
	test.ExpectEquality(t, px, demo.FromHSV(0, 119.0/240.0, 19.0/20.0))
}

func TestPatternSprites(t *testing.T) {
	mem := psram.NewPSRAM()
	pat, err := demo.WritePattern(mem, 640, 480)
	test.DemandSuccess(t, err)

	dec := framedecode.NewDecoder(mem)
	test.DemandSuccess(t, dec.ReadHeaders())

	for _, idx := range pat.Sprites {
		hdr, err := dec.SpriteHeader(idx)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, hdr.Mode, spec.ModeRGB565)
		test.ExpectEquality(t, hdr.Width, hdr.Height)

		lines := make([]framedecode.SpriteLine, hdr.Height)
		data := make([]byte, hdr.DataSize())
		test.DemandSuccess(t, dec.Sprite(idx, hdr, lines, data))

		// every row is inside the bounds of the sprite
		for i, l := range lines {
			test.ExpectSuccess(t, l.Offset >= 0, idx, i)
			test.ExpectSuccess(t, l.Width > 0, idx, i)
			test.ExpectSuccess(t, l.Offset+l.Width <= hdr.Width, idx, i)
			test.ExpectEquality(t, l.DataStart, (i*hdr.Width+l.Offset)*2, idx, i)
		}
	}

	// the ball is widest in the middle
	hdr, err := dec.SpriteHeader(pat.Sprites[0])
	test.DemandSuccess(t, err)
	lines := make([]framedecode.SpriteLine, hdr.Height)
	data := make([]byte, hdr.DataSize())
	test.DemandSuccess(t, dec.Sprite(pat.Sprites[0], hdr, lines, data))
	test.ExpectEquality(t, lines[hdr.Height/2].Width, hdr.Width)
	test.ExpectSuccess(t, lines[0].Width < hdr.Width/2)
}

func TestPatternSize(t *testing.T) {
	mem := psram.NewPSRAM()
	_, err := demo.WritePattern(mem, spec.MaxFrameWidth+2, 480)
	test.ExpectFailure(t, err)
	_, err = demo.WritePattern(mem, 640, 0)
	test.ExpectFailure(t, err)
}

func TestBouncer(t *testing.T) {
	disp := &mockDisplay{}
	pat := demo.Pattern{Width: 100, Height: 80, LineLength: 200, Sprites: []int{0, 1}}

	b, err := demo.NewBouncer(disp, pat)
	test.DemandSuccess(t, err)

	expected := []string{
		"set 0 0 33 26 copy",
		"set 1 1 66 50 blend",
	}
	if diff := deep.Equal(disp.calls, expected); diff != nil {
		t.Error(diff)
	}

	disp.calls = disp.calls[:0]
	test.DemandSuccess(t, b.Frame(1))
	expected = []string{
		"move 0 34 28",
		"move 1 68 51",
		"offset 0 2",
	}
	if diff := deep.Equal(disp.calls, expected); diff != nil {
		t.Error(diff)
	}

	// sprites never leave the frame by more than half their size
	for n := range 1000 {
		test.DemandSuccess(t, b.Frame(n))
		for i := range pat.Sprites {
			x, y := b.Position(i)
			test.ExpectSuccess(t, x >= -16 && x <= pat.Width, i, n)
			test.ExpectSuccess(t, y >= -16 && y <= pat.Height, i, n)
		}
	}

	// the scroll offset wraps at the line length
	last := disp.calls[len(disp.calls)-1]
	var offset int
	_, err = fmt.Sscanf(last, "offset 0 %d", &offset)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, offset >= 0 && offset < pat.LineLength)
}

func TestBouncerError(t *testing.T) {
	disp := &mockDisplay{fail: true}
	_, err := demo.NewBouncer(disp, demo.Pattern{Width: 100, Height: 80, Sprites: []int{0}})
	test.ExpectFailure(t, err)
}

const testScript = `
function frame(n)
	if n == 0 then
		sprite(0, 1, width() / 2, height() / 2, "blend")
		heartbeat(false)
	elseif n == 1 then
		move(0, n * 10, n * 20)
		offset(2, 64)
	else
		clear(0)
	end
end
`

func TestScript(t *testing.T) {
	disp := &mockDisplay{heartbeat: true}
	pat := demo.Pattern{Width: 320, Height: 240, LineLength: 640, Sprites: []int{0, 1}}

	s, err := demo.NewScript(context.Background(), disp, pat, "", testScript)
	test.DemandSuccess(t, err)
	defer s.Close()

	for n := range 3 {
		test.DemandSuccess(t, s.Frame(n))
	}

	expected := []string{
		"set 0 1 160 120 blend",
		"move 0 10 20",
		"offset 2 64",
		"clear 0",
	}
	if diff := deep.Equal(disp.calls, expected); diff != nil {
		t.Error(diff)
	}
	test.ExpectEquality(t, disp.heartbeat, false)
}

func TestScriptErrors(t *testing.T) {
	disp := &mockDisplay{}
	pat := demo.Pattern{Width: 320, Height: 240}

	// no frame function
	_, err := demo.NewScript(context.Background(), disp, pat, "", `x = 1`)
	test.ExpectFailure(t, err)

	// syntax error
	_, err = demo.NewScript(context.Background(), disp, pat, "", `function frame(n`)
	test.ExpectFailure(t, err)

	// missing file
	_, err = demo.NewScript(context.Background(), disp, pat, "/nonexistent/script.lua", "")
	test.ExpectFailure(t, err)

	// bad blend mode is reported by Frame()
	s, err := demo.NewScript(context.Background(), disp, pat, "", `function frame(n) sprite(0, 0, 0, 0, "xor") end`)
	test.DemandSuccess(t, err)
	defer s.Close()
	test.ExpectFailure(t, s.Frame(0))

	// errors from the display are raised in the script
	disp.fail = true
	s2, err := demo.NewScript(context.Background(), disp, pat, "", `function frame(n) sprite(0, 0, 0, 0) end`)
	test.DemandSuccess(t, err)
	defer s2.Close()
	test.ExpectFailure(t, s2.Frame(0))
}
