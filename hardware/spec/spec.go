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

// Package spec contains the compile time maxima of the display driver and the
// pixel modes understood by the frame format.
//
// Every fixed arena in the driver (the patch grid, the line buffers, the
// sprite table and the output buffers) is sized from these values so that no
// allocation happens on the per-line path.
package spec

// Maxima of the supported frame geometry.
const (
	MaxFrameWidth  = 800
	MaxFrameHeight = 600
)

// Sprite and patch budget.
const (
	MaxSprites        = 32
	MaxPatchesPerLine = 16
)

// NumScrollOffsets is the number of scroll planes that a frame table entry can
// select.
const NumScrollOffsets = 3

// NumOutputBuffers is the number of encoded scanline buffers shared with the
// serialiser. Two are in use by the cores at any time.
const NumOutputBuffers = 8

// SymbolsPerWord is the number of 10 bit TMDS symbols packed into each word of
// an output buffer.
const SymbolsPerWord = 2

// NumPlanes is the number of TMDS data channels.
const NumPlanes = 3

// OutputBufferWords is the length of one encoded scanline at maximum width.
const OutputBufferWords = NumPlanes * MaxFrameWidth / SymbolsPerWord

// LineMode is the pixel format of a single line in the frame table or of a
// sprite.
type LineMode uint8

// List of valid LineMode values.
const (
	ModeRGB565  LineMode = 1
	ModePalette LineMode = 2
	ModeRGB888  LineMode = 4
)

func (m LineMode) String() string {
	switch m {
	case ModeRGB565:
		return "RGB565"
	case ModePalette:
		return "palette"
	case ModeRGB888:
		return "RGB888"
	}
	return "unknown"
}

// Valid returns true if the mode is a known line mode.
func (m LineMode) Valid() bool {
	return m == ModeRGB565 || m == ModePalette || m == ModeRGB888
}

// PixelSize returns the number of bytes used for one pixel in the mode.
func (m LineMode) PixelSize() int {
	switch m {
	case ModePalette:
		return 1
	case ModeRGB888:
		return 3
	}
	return 2
}

// MaxPixelSize is the largest value returned by PixelSize().
const MaxPixelSize = 3

// LineBufferSize is the size in bytes of one generation of the double line
// buffer: two lines at maximum width and depth plus one word of padding.
const LineBufferSize = 2*MaxFrameWidth*MaxPixelSize + 4

// BlendMode describes how a sprite is combined with the line underneath it.
type BlendMode uint8

// List of valid BlendMode values. Only BlendCopy is performed by the transfer
// hardware. The remaining modes are accepted and stored but blend as a copy.
const (
	BlendCopy BlendMode = iota
	BlendDepth
	BlendBlend
)

func (b BlendMode) String() string {
	switch b {
	case BlendCopy:
		return "copy"
	case BlendDepth:
		return "depth"
	case BlendBlend:
		return "blend"
	}
	return "unknown"
}
