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
	"fmt"

	"github.com/jetsetilly/picostick/hardware/spec"
)

// Magic is the first word of a valid header.
const Magic = 0x4f434950

// Version of the header format understood by the decoder.
const Version = 1

// HeaderAddress is where the header is found.
const HeaderAddress = 0

const headerWords = 7

// the height of a sprite is stored in eight bits
const maxSpriteHeight = 255

// Config is the decoded header.
type Config struct {
	Width  int
	Height int

	NumFrames int

	// number of frames that each frame is shown for before the frame
	// counter advances. zero means the frame counter is only changed
	// explicitly
	FrameDivider int

	NumSprites int

	frameTables uint32
	spriteTable uint32
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d, %d frames, %d sprites", c.Width, c.Height, c.NumFrames, c.NumSprites)
}

// FrameTableEntry describes the source of a single display line.
//
//	bits 28-31	line mode
//	bits 24-27	scroll plane. zero for no offset, n to apply offset n-1
//	bits  0-23	address of the pixel data
type FrameTableEntry uint32

// NewFrameTableEntry packs the fields of a frame table entry.
func NewFrameTableEntry(addr uint32, mode spec.LineMode, scroll int) FrameTableEntry {
	return FrameTableEntry(uint32(mode&0xf)<<28 | uint32(scroll&0xf)<<24 | addr&0xffffff)
}

// Address of the pixel data for the line.
func (e FrameTableEntry) Address() uint32 {
	return uint32(e) & 0xffffff
}

// Mode of the line.
func (e FrameTableEntry) Mode() spec.LineMode {
	return spec.LineMode(e >> 28)
}

// ScrollPlane returns the index of the frame address offset to apply to the
// address. The second return value is false if no offset applies.
func (e FrameTableEntry) ScrollPlane() (int, bool) {
	s := int((e >> 24) & 0xf)
	if s == 0 || s > spec.NumScrollOffsets {
		return 0, false
	}
	return s - 1, true
}

func (e FrameTableEntry) String() string {
	return fmt.Sprintf("%#06x %s", e.Address(), e.Mode())
}

// SpriteHeader is the first word of a sprite record.
type SpriteHeader struct {
	Width  int
	Height int
	Mode   spec.LineMode
}

// DataSize returns the number of bytes of payload required by a sprite with
// this header.
func (h SpriteHeader) DataSize() int {
	return h.Width * h.Height * h.Mode.PixelSize()
}

// SpriteLine describes one row of a sprite. Rows need not cover the full
// width of the sprite, which allows non-rectangular sprites to be described
// as a list of spans.
type SpriteLine struct {
	Offset    int
	Width     int
	DataStart int
}

func packSpriteLine(l SpriteLine) uint32 {
	return uint32(uint8(int8(l.Offset))) | uint32(l.Width&0xff)<<8 | uint32(l.DataStart&0xffff)<<16
}

func unpackSpriteLine(w uint32) SpriteLine {
	return SpriteLine{
		Offset:    int(int8(w & 0xff)),
		Width:     int((w >> 8) & 0xff),
		DataStart: int(w >> 16),
	}
}
