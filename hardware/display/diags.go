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
	"fmt"
	"time"

	"github.com/jetsetilly/picostick/logger"
)

// Diags is a snapshot of the timing of the most recent frame.
type Diags struct {
	// number of frames displayed since the driver started running
	Frame int

	// index of the frame in the frame data that was displayed
	FrameIndex int

	// time spent encoding scanlines by each core. index zero is core A
	ScanlineTime    [2]time.Duration
	MaxScanlineTime [2]time.Duration

	// the longest time taken by either core to encode a scanline since the
	// peak was last cleared
	PeakScanlineTime time.Duration

	// time available to each core for encoding a scanline
	AvailableScanlineTime time.Duration

	// time from the start of the frame to the start of streaming. this is
	// the work that must fit into the vertical blanking period
	VSyncTime          time.Duration
	AvailableVSyncTime time.Duration

	// time spent in each phase of the frame
	HeaderTime time.Duration
	SpriteTime time.Duration
	PrimeTime  time.Duration
	StreamTime time.Duration
	GraceTime  time.Duration

	// largest number of patches on a single line and largest descriptor
	// chain
	MaxPatches     int
	MaxChainLength int

	// sprite fragments that were dropped because their line had no free
	// patch slot
	PatchOverflows int

	// descriptor chains that were not consumed within the spin bound
	ChainStalls int

	// late scanlines during the frame and since the count was last cleared
	LateScanlines      int
	TotalLateScanlines int
}

func (d Diags) String() string {
	return fmt.Sprintf("frame %d: vsync %v/%v, scanline %v/%v, late %d (%d)",
		d.Frame, d.VSyncTime, d.AvailableVSyncTime, d.PeakScanlineTime,
		d.AvailableScanlineTime, d.LateScanlines, d.TotalLateScanlines)
}

// Diags returns the diagnostics of the most recent frame.
func (d *Driver) Diags() Diags {
	d.diagsCrit.Lock()
	defer d.diagsCrit.Unlock()
	return d.diags
}

// SetDiagsCallback sets a function to be called at the end of every frame.
// The function is called by core A and delays the start of the next frame
// for as long as it runs. A nil function removes the callback.
func (d *Driver) SetDiagsCallback(f func(Diags)) {
	d.diagsCrit.Lock()
	defer d.diagsCrit.Unlock()
	d.diagsCallback = f
}

// ClearPeakScanlineTime resets the peak scanline time.
func (d *Driver) ClearPeakScanlineTime() {
	d.peak.Store(0)
}

// ClearLateScanlines resets the count of late scanlines.
func (d *Driver) ClearLateScanlines() {
	d.sh.ser.ClearLateScanlines()
}

// publish the diagnostics for the frame and reset the per-frame counters
func (d *Driver) publish(diags Diags) {
	sh := d.sh

	for core := range sh.stats.maxScanline {
		m := int64(sh.stats.maxScanline[core])
		for {
			p := d.peak.Load()
			if m <= p || d.peak.CompareAndSwap(p, m) {
				break
			}
		}
	}

	t := sh.ser.Timing()
	diags.AvailableScanlineTime = 2 * t.LinePeriod()
	diags.AvailableVSyncTime = t.VBlankPeriod()

	diags.ScanlineTime = sh.stats.scanline
	diags.MaxScanlineTime = sh.stats.maxScanline
	diags.PeakScanlineTime = time.Duration(d.peak.Load())
	diags.MaxPatches = sh.stats.maxPatches
	diags.MaxChainLength = sh.stats.maxChain
	diags.ChainStalls = sh.stats.chainStalls
	diags.PatchOverflows = int(sh.overflows.Swap(0))

	// the serialiser's count is cumulative and may have been cleared by the
	// caller since the last frame
	late := sh.ser.LateScanlines()
	if late >= d.lastLate {
		diags.LateScanlines = late - d.lastLate
	} else {
		diags.LateScanlines = late
	}
	diags.TotalLateScanlines = late
	d.lastLate = late

	sh.stats = frameStats{}

	if diags.PatchOverflows > 0 {
		logger.Logf(logger.Allow, "display", "%d sprite fragments dropped from full lines", diags.PatchOverflows)
	}
	if diags.ChainStalls > 0 {
		logger.Logf(logger.Allow, "display", "%d descriptor chains stalled", diags.ChainStalls)
	}
	logger.Log(d.Prefs, "display", diags)

	d.diagsCrit.Lock()
	d.diags = diags
	f := d.diagsCallback
	d.diagsCrit.Unlock()

	if f != nil {
		f(diags)
	}
}
