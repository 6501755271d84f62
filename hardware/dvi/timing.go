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

package dvi

import (
	"fmt"
	"time"
)

// Timing describes the video mode generated by the serialiser.
type Timing struct {
	Name string

	// active area
	Width  int
	Height int

	// totals including blanking
	HTotal int
	VTotal int

	// TMDS bit clock. the pixel clock is one tenth of this
	BitClockKHz int
}

func (t Timing) String() string {
	return fmt.Sprintf("%s %dx%d (%dkHz)", t.Name, t.Width, t.Height, t.BitClockKHz)
}

// LinePeriod returns the time taken to transmit one scanline, including
// horizontal blanking.
func (t Timing) LinePeriod() time.Duration {
	if t.BitClockKHz == 0 {
		return 0
	}
	return time.Duration(int64(t.HTotal) * 10 * int64(time.Millisecond) / int64(t.BitClockKHz))
}

// VBlankPeriod returns the time between the last active line of one frame
// and the first active line of the next.
func (t Timing) VBlankPeriod() time.Duration {
	return time.Duration(t.VTotal-t.Height) * t.LinePeriod()
}

// FramePeriod returns the time taken for one frame.
func (t Timing) FramePeriod() time.Duration {
	return time.Duration(t.VTotal) * t.LinePeriod()
}

// list of supported video modes
var timings = []Timing{
	{Name: "VGA", Width: 640, Height: 480, HTotal: 800, VTotal: 525, BitClockKHz: 252000},
	{Name: "480p", Width: 720, Height: 480, HTotal: 858, VTotal: 525, BitClockKHz: 270000},
	{Name: "576p", Width: 720, Height: 576, HTotal: 864, VTotal: 625, BitClockKHz: 270000},
	{Name: "400", Width: 720, Height: 400, HTotal: 900, VTotal: 449, BitClockKHz: 283200},
	{Name: "SVGA", Width: 800, Height: 600, HTotal: 1056, VTotal: 628, BitClockKHz: 400000},
	{Name: "VGA/2", Width: 320, Height: 240, HTotal: 400, VTotal: 263, BitClockKHz: 126000},
}

// TimingFor returns the timing for an active area of the given size.
func TimingFor(width int, height int) (Timing, error) {
	for _, t := range timings {
		if t.Width == width && t.Height == height {
			return t, nil
		}
	}
	return Timing{}, fmt.Errorf("dvi: no timing for %dx%d", width, height)
}
