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

// MemoryWriter is the device that a Builder writes to.
type MemoryWriter interface {
	Write(addr uint32, data []byte)
}

// address of the first allocation made by a Builder. the region below holds
// the header
const builderBase = 0x100

// Builder lays out a frame description in memory. Allocations are made
// upwards from the end of the header and are never freed.
type Builder struct {
	mem MemoryWriter

	cfg Config

	// sprite record addresses in table order
	sprites []uint32

	next uint32
}

// NewBuilder is the preferred method of initialisation for the Builder type.
// Space for the frame tables and the sprite table is allocated immediately.
func NewBuilder(mem MemoryWriter, width int, height int, numFrames int, divider int) *Builder {
	b := &Builder{
		mem: mem,
		cfg: Config{
			Width:        width,
			Height:       height,
			NumFrames:    numFrames,
			FrameDivider: divider,
		},
		next: builderBase,
	}
	b.cfg.frameTables = b.Alloc(numFrames * height * 4)
	b.cfg.spriteTable = b.Alloc(spec.MaxSprites * 4)
	return b
}

// Alloc reserves n bytes and returns the address of the reservation. The
// address is word aligned.
func (b *Builder) Alloc(n int) uint32 {
	a := b.next
	b.next += uint32((n + 3) &^ 3)
	return a
}

// Data allocates space for the data, writes it and returns its address.
func (b *Builder) Data(data []byte) uint32 {
	a := b.Alloc(len(data))
	b.mem.Write(a, data)
	return a
}

// Top returns the address of the next allocation.
func (b *Builder) Top() uint32 {
	return b.next
}

// SetLine sets the frame table entry for a line of a frame.
func (b *Builder) SetLine(frame int, line int, e FrameTableEntry) {
	var w [4]byte
	binary.LittleEndian.PutUint32(w[:], uint32(e))
	b.mem.Write(b.cfg.frameTables+uint32((frame*b.cfg.Height+line)*4), w[:])
}

// AddSprite writes a sprite record and adds it to the sprite table. Returns
// the index of the sprite in the table.
func (b *Builder) AddSprite(h SpriteHeader, lines []SpriteLine, payload []byte) (int, error) {
	if len(b.sprites) >= spec.MaxSprites {
		return 0, curated.Errorf("framedecode: sprite table full")
	}
	if len(lines) != h.Height {
		return 0, curated.Errorf("framedecode: sprite has %d rows but %d row descriptions", h.Height, len(lines))
	}
	if len(payload) != h.DataSize() {
		return 0, curated.Errorf("framedecode: sprite payload is %d bytes and should be %d", len(payload), h.DataSize())
	}

	rec := make([]byte, 4+len(lines)*4, 4+len(lines)*4+len(payload))
	binary.LittleEndian.PutUint32(rec, uint32(h.Width&0xff)|uint32(h.Height&0xff)<<8|uint32(h.Mode)<<16)
	for i, l := range lines {
		binary.LittleEndian.PutUint32(rec[4+i*4:], packSpriteLine(l))
	}
	rec = append(rec, payload...)

	addr := b.Data(rec)

	var w [4]byte
	binary.LittleEndian.PutUint32(w[:], addr)
	b.mem.Write(b.cfg.spriteTable+uint32(len(b.sprites)*4), w[:])
	b.sprites = append(b.sprites, addr)

	return len(b.sprites) - 1, nil
}

// Commit writes the header. The header is written last so that a reader never
// sees a valid header describing incomplete tables.
func (b *Builder) Commit() {
	b.cfg.NumSprites = len(b.sprites)

	var hdr [headerWords * 4]byte
	w := func(i int, v uint32) {
		binary.LittleEndian.PutUint32(hdr[i*4:], v)
	}
	w(0, Magic)
	w(1, Version|uint32(b.cfg.FrameDivider&0xff)<<8)
	w(2, uint32(b.cfg.Width)|uint32(b.cfg.Height)<<16)
	w(3, uint32(b.cfg.NumFrames))
	w(4, b.cfg.frameTables)
	w(5, uint32(b.cfg.NumSprites))
	w(6, b.cfg.spriteTable)

	b.mem.Write(HeaderAddress, hdr[:])
}
