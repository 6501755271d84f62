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

// Package tmds implements the symbol encoding used on the DVI data channels.
//
// Each 8 bit colour component is transition minimised and DC balanced into a
// 10 bit symbol. Two symbols are packed into each 32 bit word of the output,
// the first symbol in the low bits. A scanline is encoded into three planes,
// one for each of the blue, green and red channels, in that order.
package tmds

import (
	"math/bits"

	"github.com/jetsetilly/picostick/hardware/spec"
)

// Plane identifies a TMDS data channel.
type Plane int

// List of valid Plane values. The values match the DVI channel numbers.
const (
	Blue Plane = iota
	Green
	Red
)

// PlaneWords returns the number of words used by one plane of a scanline of
// the given width.
func PlaneWords(width int) int {
	return (width + spec.SymbolsPerWord - 1) / spec.SymbolsPerWord
}

// Encoder converts decoded pixel lines into TMDS symbols.
type Encoder struct {
	// Palette used for lines in ModePalette. Entries are red, green, blue
	Palette [256][3]uint8
}

// NewEncoder returns an encoder with a default RGB332 palette.
func NewEncoder() *Encoder {
	e := &Encoder{}
	for i := range e.Palette {
		r := uint8(i>>5) & 0x07
		g := uint8(i>>2) & 0x07
		b := uint8(i) & 0x03
		e.Palette[i] = [3]uint8{r<<5 | r<<2 | r>>1, g<<5 | g<<2 | g>>1, b<<6 | b<<4 | b<<2 | b}
	}
	return e
}

// EncodeScanline encodes width pixels of the given mode into out. The output
// must have room for 3*PlaneWords(width) words.
func (e *Encoder) EncodeScanline(pixels []byte, mode spec.LineMode, width int, out []uint32) {
	n := PlaneWords(width)
	e.EncodeChannel(pixels, mode, width, Blue, out[0:n])
	e.EncodeChannel(pixels, mode, width, Green, out[n:2*n])
	e.EncodeChannel(pixels, mode, width, Red, out[2*n:3*n])
}

// EncodeChannel encodes one plane of a scanline. Running disparity starts at
// zero for every channel of every line.
func (e *Encoder) EncodeChannel(pixels []byte, mode spec.LineMode, width int, plane Plane, out []uint32) {
	disparity := 0
	for x := 0; x < width; x += 2 {
		s0 := encode(e.component(pixels, mode, x, plane), &disparity)
		var s1 uint32
		if x+1 < width {
			s1 = encode(e.component(pixels, mode, x+1, plane), &disparity)
		}
		out[x>>1] = s0 | s1<<10
	}
}

// component extracts the 8 bit value of a colour component for the pixel at x
func (e *Encoder) component(pixels []byte, mode spec.LineMode, x int, plane Plane) uint8 {
	switch mode {
	case spec.ModePalette:
		return e.Palette[pixels[x]][Red-plane]
	case spec.ModeRGB888:
		return pixels[x*3+int(Red-plane)]
	}

	p := uint16(pixels[x*2]) | uint16(pixels[x*2+1])<<8
	switch plane {
	case Blue:
		v := uint8(p & 0x1f)
		return v<<3 | v>>2
	case Green:
		v := uint8((p >> 5) & 0x3f)
		return v<<2 | v>>4
	}
	v := uint8(p >> 11)
	return v<<3 | v>>2
}

// encode a single component into a 10 bit symbol, updating the running
// disparity
func encode(d uint8, disparity *int) uint32 {
	n1 := bits.OnesCount8(d)

	// transition minimisation
	q := uint32(d & 1)
	xnor := n1 > 4 || (n1 == 4 && d&1 == 0)
	for i := 1; i < 8; i++ {
		b := (q >> (i - 1)) & 1 ^ uint32(d>>i)&1
		if xnor {
			b ^= 1
		}
		q |= b << i
	}
	if !xnor {
		q |= 0x100
	}

	// dc balancing
	ones := bits.OnesCount32(q & 0xff)
	zeros := 8 - ones
	q8 := q&0x100 != 0

	if *disparity == 0 || ones == zeros {
		if q8 {
			*disparity += ones - zeros
			return q
		}
		*disparity += zeros - ones
		return 0x200 | (^q & 0xff)
	}

	if (*disparity > 0 && ones > zeros) || (*disparity < 0 && zeros > ones) {
		*disparity += zeros - ones
		if q8 {
			*disparity += 2
		}
		return 0x200 | (q & 0x100) | (^q & 0xff)
	}

	*disparity += ones - zeros
	if !q8 {
		*disparity -= 2
	}
	return q
}

// Decode returns the 8 bit value of a 10 bit symbol.
func Decode(s uint32) uint8 {
	d := s & 0xff
	if s&0x200 != 0 {
		d = ^d & 0xff
	}

	v := d & 1
	for i := 1; i < 8; i++ {
		b := (d>>i)&1 ^ (d>>(i-1))&1
		if s&0x100 == 0 {
			b ^= 1
		}
		v |= b << i
	}
	return uint8(v)
}

// DecodeScanline recovers RGB888 pixels from an encoded scanline. The output
// must have room for 3*width bytes.
func DecodeScanline(in []uint32, width int, out []byte) {
	n := PlaneWords(width)
	for x := 0; x < width; x++ {
		shift := uint(x&1) * 10
		w := x >> 1
		out[x*3] = Decode((in[2*n+w] >> shift) & 0x3ff)
		out[x*3+1] = Decode((in[n+w] >> shift) & 0x3ff)
		out[x*3+2] = Decode((in[w] >> shift) & 0x3ff)
	}
}
