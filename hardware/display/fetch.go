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
	"github.com/jetsetilly/picostick/hardware/tmds"
)

// fetchTwoLines reads the pair of lines starting at line into the line buffer
// generation for the pair. Any patches for the two lines are applied by the
// descriptor chain once the read has completed.
//
// The function returns once the read has been issued. The previous read and
// the previous descriptor chain have both completed by the time it returns.
func (sh *shared) fetchTwoLines(line int) int {
	gen := (line >> 1) & 1

	for i := 0; i < 2; i++ {
		e := sh.table[line+i]
		addr := e.Address()
		if plane, ok := e.ScrollPlane(); ok {
			addr += uint32(sh.offsets[plane])
		}
		sh.addrs[i] = addr
		sh.lengths[i] = sh.cfg.Width * e.Mode().PixelSize()
	}
	sh.lineLen[gen] = sh.lengths

	n := sh.collectAndArm(line)
	if n > 0 {
		sh.mem.MultiRead(sh.addrs[:], sh.lengths[:], sh.lines[gen][:], sh.chainCh)
	} else {
		sh.mem.MultiRead(sh.addrs[:], sh.lengths[:], sh.lines[gen][:], nil)
	}

	return n
}

// decoded returns the pixels of a line that has been fetched
func (sh *shared) decoded(line int) []byte {
	gen := (line >> 1) & 1
	l := sh.lineLen[gen]
	if line&1 == 0 {
		return sh.lines[gen][:l[0]]
	}
	return sh.lines[gen][l[0] : l[0]+l[1]]
}

// encodeLine is the work done by both cores to prepare a scanline for the
// serialiser
func encodeLine(enc Encoder, m msgEncodeLine) {
	m.out.Line = m.line
	m.out.Width = m.width
	enc.EncodeScanline(m.pixels, m.mode, m.width, m.out.Symbols[:3*tmds.PlaneWords(m.width)])
}
