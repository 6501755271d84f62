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
	"github.com/jetsetilly/picostick/hardware/dma"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/psram"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// Memory is the external memory holding the frame data.
type Memory interface {
	Init() error

	// MultiRead returns immediately. The chain channel, if not nil, is
	// triggered once every region has been read
	MultiRead(addrs []uint32, lengths []int, dest []byte, chain *dma.Channel)
	WaitForFinish()

	SetMode(mode psram.Mode)

	// raw access. not used by the scanline pipeline
	Read(addr uint32, buf []byte)
	Write(addr uint32, data []byte)
}

// FrameDecoder interprets the frame description held in Memory.
type FrameDecoder interface {
	ReadHeaders() error
	Config() framedecode.Config
	FrameTable(frame int, table []framedecode.FrameTableEntry) error
	SpriteHeader(idx int) (framedecode.SpriteHeader, error)
	Sprite(idx int, header framedecode.SpriteHeader, lines []framedecode.SpriteLine, data []byte) error
}

// Serialiser transmits encoded scanlines.
type Serialiser interface {
	SetTiming(t dvi.Timing) error
	Timing() dvi.Timing
	RegisterCore(core int)
	Start() error
	Stop()
	TakeFree() *dvi.Scanline
	QueueValid(b *dvi.Scanline)
	LateScanlines() int
	ClearLateScanlines()
}

// Encoder converts a decoded line into TMDS symbols.
type Encoder interface {
	EncodeScanline(pixels []byte, mode spec.LineMode, width int, out []uint32)
}
