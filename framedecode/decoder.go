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

package framedecode

import (
	"encoding/binary"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// Memory is the device that holds the frame description.
type Memory interface {
	Read(addr uint32, buf []byte)
}

// Decoder reads frame descriptions from memory.
type Decoder struct {
	mem Memory
	cfg Config

	// scratch space for reading frame tables. sprites are read into a local
	// buffer because the sprites are read by both cores
	buf []byte
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(mem Memory) *Decoder {
	return &Decoder{
		mem: mem,
		buf: make([]byte, spec.MaxFrameHeight*4),
	}
}

// ReadHeaders reads and validates the header. The previous configuration is
// kept if the header is not valid.
func (d *Decoder) ReadHeaders() error {
	var b [headerWords * 4]byte
	d.mem.Read(HeaderAddress, b[:])

	w := func(i int) uint32 {
		return binary.LittleEndian.Uint32(b[i*4:])
	}

	if w(0) != Magic {
		return curated.Errorf("framedecode: bad magic (%#08x)", w(0))
	}
	if v := w(1) & 0xff; v != Version {
		return curated.Errorf("framedecode: unsupported version (%d)", v)
	}

	cfg := Config{
		Width:        int(w(2) & 0xffff),
		Height:       int(w(2) >> 16),
		FrameDivider: int((w(1) >> 8) & 0xff),
		NumFrames:    int(w(3)),
		frameTables:  w(4),
		NumSprites:   int(w(5)),
		spriteTable:  w(6),
	}

	if cfg.Width == 0 || cfg.Height == 0 || cfg.Width > spec.MaxFrameWidth || cfg.Height > spec.MaxFrameHeight {
		return curated.Errorf("framedecode: unsupported frame size (%dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.Width&1 == 1 || cfg.Height&1 == 1 {
		return curated.Errorf("framedecode: frame size must be even (%dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.NumFrames == 0 {
		return curated.Errorf("framedecode: no frames")
	}
	if cfg.NumSprites > spec.MaxSprites {
		return curated.Errorf("framedecode: too many sprites (%d)", cfg.NumSprites)
	}

	d.cfg = cfg
	return nil
}

// Config returns the most recently read valid header.
func (d *Decoder) Config() Config {
	return d.cfg
}

// FrameTable reads the frame table for the frame into table. The frame number
// wraps at the number of frames.
func (d *Decoder) FrameTable(frame int, table []FrameTableEntry) error {
	if d.cfg.NumFrames == 0 {
		return curated.Errorf("framedecode: headers not read")
	}
	if len(table) < d.cfg.Height {
		return curated.Errorf("framedecode: frame table too short (%d lines)", len(table))
	}

	frame %= d.cfg.NumFrames
	if frame < 0 {
		frame += d.cfg.NumFrames
	}

	n := d.cfg.Height * 4
	d.mem.Read(d.cfg.frameTables+uint32(frame*n), d.buf[:n])
	for i := 0; i < d.cfg.Height; i++ {
		table[i] = FrameTableEntry(binary.LittleEndian.Uint32(d.buf[i*4:]))
	}

	return nil
}

func (d *Decoder) spriteAddress(idx int) (uint32, error) {
	if idx < 0 || idx >= d.cfg.NumSprites {
		return 0, curated.Errorf("framedecode: no sprite %d", idx)
	}
	var b [4]byte
	d.mem.Read(d.cfg.spriteTable+uint32(idx*4), b[:])
	return binary.LittleEndian.Uint32(b[:]), nil
}

// SpriteHeader reads the header of the sprite at index idx of the sprite
// table.
func (d *Decoder) SpriteHeader(idx int) (SpriteHeader, error) {
	addr, err := d.spriteAddress(idx)
	if err != nil {
		return SpriteHeader{}, err
	}

	var b [4]byte
	d.mem.Read(addr, b[:])
	w := binary.LittleEndian.Uint32(b[:])

	h := SpriteHeader{
		Width:  int(w & 0xff),
		Height: int((w >> 8) & 0xff),
		Mode:   spec.LineMode((w >> 16) & 0xff),
	}
	if !h.Mode.Valid() {
		return SpriteHeader{}, curated.Errorf("framedecode: sprite %d has invalid mode (%d)", idx, h.Mode)
	}

	return h, nil
}

// Sprite reads the row descriptions and pixel payload of a sprite. The lines
// slice must have room for header.Height entries and data must have room for
// header.DataSize() bytes.
func (d *Decoder) Sprite(idx int, header SpriteHeader, lines []SpriteLine, data []byte) error {
	addr, err := d.spriteAddress(idx)
	if err != nil {
		return err
	}
	if len(lines) < header.Height || len(data) < header.DataSize() {
		return curated.Errorf("framedecode: buffers too small for sprite %d", idx)
	}

	var b [maxSpriteHeight * 4]byte

	addr += 4
	n := header.Height * 4
	d.mem.Read(addr, b[:n])
	for i := 0; i < header.Height; i++ {
		lines[i] = unpackSpriteLine(binary.LittleEndian.Uint32(b[i*4:]))
		if lines[i].DataStart+lines[i].Width*header.Mode.PixelSize() > header.DataSize() {
			return curated.Errorf("framedecode: sprite %d row %d overruns payload", idx, i)
		}
	}

	d.mem.Read(addr+uint32(n), data[:header.DataSize()])

	return nil
}
