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
	"strings"

	"github.com/jetsetilly/picostick/prefs"
)

// Preferences of the display driver.
type Preferences struct {
	// toggle the heartbeat pin every 32 frames
	Heartbeat *prefs.Bool

	// put the PSRAM into SPI mode for the bank switch grace window
	SPIMode *prefs.Bool

	// length of the grace window in microseconds
	Grace *prefs.Int

	// number of spin iterations allowed for each patch of the previous
	// descriptor chain before falling back to a blocking wait
	SpinPerPatch *prefs.Int

	// add an entry to the log for every frame
	LogFrames *prefs.Bool
}

// list of keys that can be used on the command line to set the preferences
const (
	prefHeartbeat    = "display.heartbeat"
	prefSPIMode      = "display.spiMode"
	prefGrace        = "display.grace"
	prefSpinPerPatch = "display.spinPerPatch"
	prefLogFrames    = "display.logFrames"
)

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values from the current command line group are applied.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{
		Heartbeat:    prefs.NewBool(true),
		SPIMode:      prefs.NewBool(false),
		Grace:        prefs.NewInt(10, 0, 100000),
		SpinPerPatch: prefs.NewInt(2000, 1, 1000000),
		LogFrames:    prefs.NewBool(false),
	}

	for key, v := range p.list() {
		if err := prefs.ApplyCommandLine(key, v); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Preferences) list() map[string]prefs.Pref {
	return map[string]prefs.Pref{
		prefHeartbeat:    p.Heartbeat,
		prefSPIMode:      p.SPIMode,
		prefGrace:        p.Grace,
		prefSpinPerPatch: p.SpinPerPatch,
		prefLogFrames:    p.LogFrames,
	}
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	for _, v := range p.list() {
		_ = v.Reset()
	}
}

func (p *Preferences) String() string {
	s := strings.Builder{}
	s.WriteString("heartbeat: ")
	s.WriteString(p.Heartbeat.String())
	s.WriteString(", spi: ")
	s.WriteString(p.SPIMode.String())
	s.WriteString(", grace: ")
	s.WriteString(p.Grace.String())
	s.WriteString("us, spin: ")
	s.WriteString(p.SpinPerPatch.String())
	return s.String()
}

// AllowLogging implements the logger.Permission interface. Per-frame log
// entries are only made when the LogFrames preference is set.
func (p *Preferences) AllowLogging() bool {
	return p.LogFrames.Get().(bool)
}
