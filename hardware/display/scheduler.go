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
	"time"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/psram"
)

// the heartbeat pin is toggled once every heartbeatPeriod frames
const heartbeatPeriod = 32

// frame displays one frame. the phases of the frame happen in a fixed order
// and it is this order that keeps the two cores and the DMA hardware from
// interfering with one another:
//
//	READ_HEADER		the frame header is read. failure is fatal
//	RESOLVE_TABLE		the frame table and scroll offsets are fixed for the frame
//	UPDATE_SPRITES		waits for the patch grid to be cleared then places sprites
//	PRIME			the first pair of lines is fetched and waited for
//	STREAM			pairs of lines are fetched and encoded
//	SIGNAL_BANK_SWITCH	the bank switch pin is raised once the last read is complete
//	GRACE_DELAY		the PSRAM may be switched by the application processor
//
// the bank switch pin is lowered again at the start of the next READ_HEADER
func (d *Driver) frame() error {
	sh := d.sh

	var diags Diags

	if d.Prefs.Heartbeat.Get().(bool) {
		d.heartbeatCount++
		if d.heartbeatCount >= heartbeatPeriod {
			d.heartbeatCount = 0
			d.heartbeat.Toggle()
		}
	}

	// READ_HEADER
	start := time.Now()
	d.bankSwitch.Put(false)

	if err := sh.dec.ReadHeaders(); err != nil {
		return curated.Errorf("display: %v", err)
	}
	cfg := sh.dec.Config()
	if cfg.Width != d.cfg.Width || cfg.Height != d.cfg.Height {
		return curated.Errorf("display: frame size changed to %dx%d", cfg.Width, cfg.Height)
	}
	sh.cfg = cfg

	// RESOLVE_TABLE
	d.crit.Lock()
	sh.offsets = d.nextOffsets
	requested := d.requested
	if d.frameOverride >= 0 {
		d.frameIndex = d.frameOverride
		d.dividerCount = 0
		d.frameOverride = -1
	}
	d.crit.Unlock()

	d.frameIndex %= cfg.NumFrames
	if err := sh.dec.FrameTable(d.frameIndex, sh.table[:]); err != nil {
		return curated.Errorf("display: %v", err)
	}
	diags.HeaderTime = time.Since(start)

	// UPDATE_SPRITES
	t := time.Now()
	sh.clearCh.WaitForFinish()
	for i := range sh.sprites {
		sh.sprites[i].SpriteState = requested[i]
	}
	sh.updateSprites()
	diags.SpriteTime = time.Since(t)

	// PRIME
	t = time.Now()
	sh.fetchTwoLines(0)
	sh.mem.WaitForFinish()
	diags.PrimeTime = time.Since(t)
	diags.VSyncTime = time.Since(start)

	// STREAM and SIGNAL_BANK_SWITCH
	t = time.Now()
	sh.stream(func() {
		d.bankSwitch.Put(true)
	})
	diags.StreamTime = time.Since(t)

	// GRACE_DELAY
	t = time.Now()
	spi := d.Prefs.SPIMode.Get().(bool)
	if spi {
		sh.mem.SetMode(psram.SPI)
	}
	if grace := d.Prefs.Grace.Get().(int); grace > 0 {
		time.Sleep(time.Duration(grace) * time.Microsecond)
	}
	if spi {
		sh.mem.SetMode(psram.QPI)
	}
	diags.GraceTime = time.Since(t)

	diags.Frame = d.frameNum
	diags.FrameIndex = d.frameIndex
	d.frameNum++

	if cfg.FrameDivider > 0 {
		d.dividerCount++
		if d.dividerCount >= cfg.FrameDivider {
			d.dividerCount = 0
			d.frameIndex = (d.frameIndex + 1) % cfg.NumFrames
		}
	}

	d.publish(diags)

	return nil
}
