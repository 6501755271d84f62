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
	"encoding/binary"
	"sync"
	"testing"

	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/dma"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/psram"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/hardware/tmds"
	"github.com/jetsetilly/picostick/test"
)

// recordingMemory notes whether each multi-read was chained and every change
// of bus mode
type recordingMemory struct {
	*psram.PSRAM
	chained []bool
	modes   []psram.Mode
}

func (m *recordingMemory) SetMode(mode psram.Mode) {
	m.modes = append(m.modes, mode)
	m.PSRAM.SetMode(mode)
}

func (m *recordingMemory) MultiRead(addrs []uint32, lengths []int, dest []byte, chain *dma.Channel) {
	m.chained = append(m.chained, chain != nil)
	m.PSRAM.MultiRead(addrs, lengths, dest, chain)
}

// the pixel value of the background of every test frame
func basePixel(frame int, line int, x int) uint16 {
	return uint16(frame*0x1111 + line*7 + x*3)
}

// fixture is a frame description in PSRAM with RGB565 lines
type fixture struct {
	mem     *recordingMemory
	b       *framedecode.Builder
	width   int
	height  int
	base    [][]byte
	sprites []fixtureSprite
}

type fixtureSprite struct {
	header  framedecode.SpriteHeader
	lines   []framedecode.SpriteLine
	payload []byte
}

func newFixture(width int, height int, numFrames int, divider int) *fixture {
	f := &fixture{
		mem:    &recordingMemory{PSRAM: psram.NewPSRAM()},
		width:  width,
		height: height,
	}
	f.b = framedecode.NewBuilder(f.mem, width, height, numFrames, divider)

	for fr := 0; fr < numFrames; fr++ {
		for l := 0; l < height; l++ {
			data := make([]byte, width*2)
			for x := 0; x < width; x++ {
				binary.LittleEndian.PutUint16(data[x*2:], basePixel(fr, l, x))
			}
			addr := f.b.Data(data)
			f.b.SetLine(fr, l, framedecode.NewFrameTableEntry(addr, spec.ModeRGB565, 0))
			if fr == 0 {
				f.base = append(f.base, data)
			}
		}
	}

	return f
}

// addSprite adds a rectangular RGB565 sprite and returns its sprite table
// index
func (f *fixture) addSprite(t *testing.T, width int, height int, fill byte) int {
	t.Helper()

	hdr := framedecode.SpriteHeader{Width: width, Height: height, Mode: spec.ModeRGB565}
	lines := make([]framedecode.SpriteLine, height)
	for i := range lines {
		lines[i] = framedecode.SpriteLine{Width: width, DataStart: i * width * 2}
	}
	payload := make([]byte, hdr.DataSize())
	for i := range payload {
		payload[i] = fill ^ byte(i)
	}

	idx, err := f.b.AddSprite(hdr, lines, payload)
	test.DemandSuccess(t, err)
	f.sprites = append(f.sprites, fixtureSprite{header: hdr, lines: lines, payload: payload})
	return idx
}

// expectedLine is the frame zero line with the sprites drawn over it in
// sprite order
func (f *fixture) expectedLine(line int, sprites []SpriteState) []byte {
	out := append([]byte(nil), f.base[line]...)
	for _, s := range sprites {
		if !s.Enabled() {
			continue
		}
		fs := f.sprites[s.Index]
		i := line - s.Y
		if i < 0 || i >= fs.header.Height {
			continue
		}
		l := fs.lines[i]
		for x := 0; x < l.Width; x++ {
			px := s.X + l.Offset + x
			if px < 0 || px >= f.width {
				continue
			}
			copy(out[px*2:px*2+2], fs.payload[l.DataStart+x*2:])
		}
	}
	return out
}

// sink records the scanlines transmitted by the serialiser
type sink struct {
	crit sync.Mutex

	// line numbers of each completed frame
	frames  [][]int
	current []int

	// symbols of every line of the first frame
	symbols [][]uint32

	vsync chan int
}

func newSink() *sink {
	return &sink{vsync: make(chan int, 16)}
}

func (s *sink) Scanline(l *dvi.Scanline) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.current = append(s.current, l.Line)
	if len(s.frames) == 0 {
		n := 3 * tmds.PlaneWords(l.Width)
		s.symbols = append(s.symbols, append([]uint32(nil), l.Symbols[:n]...))
	}
}

func (s *sink) VSync(frame int) {
	s.crit.Lock()
	s.frames = append(s.frames, s.current)
	s.current = nil
	s.crit.Unlock()

	select {
	case s.vsync <- frame:
	default:
	}
}

// newTestDriver creates an initialised driver for the fixture. the header is
// committed first
func newTestDriver(t *testing.T, f *fixture) (*Driver, *sink) {
	t.Helper()

	f.b.Commit()

	snk := newSink()
	ser := dvi.NewSerialiser(snk)
	d, err := NewDriver(f.mem, framedecode.NewDecoder(f.mem), ser, tmds.NewEncoder())
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, d.Prefs.Grace.Set(0))
	test.DemandSuccess(t, d.Init())

	return d, snk
}

// resolve prepares the shared state for the first frame without running the
// driver
func resolve(t *testing.T, d *Driver) *shared {
	t.Helper()
	sh := d.sh
	test.DemandSuccess(t, sh.dec.ReadHeaders())
	sh.cfg = sh.dec.Config()
	test.DemandSuccess(t, sh.dec.FrameTable(0, sh.table[:]))
	return sh
}

// patches returns the non-empty patches of a line, in slot order
func patches(sh *shared, row int) []patch {
	var p []patch
	for _, s := range sh.grid[row*spec.MaxPatchesPerLine : (row+1)*spec.MaxPatchesPerLine] {
		if s.data == nil {
			break
		}
		p = append(p, s)
	}
	return p
}
