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

package demo

import "math"

// FromHSV converts hue, saturation and value, each in the range 0 to 1, to an
// RGB565 pixel.
func FromHSV(h float64, s float64, v float64) uint16 {
	i := math.Floor(h * 6)
	f := h*6 - i
	v *= 255

	p := uint8(v * (1 - s))
	q := uint8(v * (1 - f*s))
	t := uint8(v * (1 - (1-f)*s))
	vv := uint8(v)

	var r, g, b uint8
	switch int(i) % 6 {
	case 0:
		r, g, b = vv, t, p
	case 1:
		r, g, b = q, vv, p
	case 2:
		r, g, b = p, vv, t
	case 3:
		r, g, b = p, q, vv
	case 4:
		r, g, b = t, p, vv
	default:
		r, g, b = vv, p, q
	}

	return RGB565(r, g, b)
}

// RGB565 packs eight bit colour components into an RGB565 pixel.
func RGB565(r uint8, g uint8, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
