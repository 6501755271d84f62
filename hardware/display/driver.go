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
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/dma"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/gpio"
	"github.com/jetsetilly/picostick/hardware/sio"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/logger"
)

// Driver is the display driver. Create with NewDriver(), call Init() once and
// then Run().
//
// The functions that change sprites, frame offsets and the frame counter can
// be called from any goroutine at any time. Changes take effect at the start
// of the next frame.
type Driver struct {
	Prefs *Preferences

	sh *shared

	dma        *dma.Controller
	heartbeat  *gpio.Pin
	bankSwitch *gpio.Pin

	// configuration read by Init(). the frame size cannot change after
	// initialisation
	cfg         framedecode.Config
	initialised bool
	running     atomic.Bool

	// state requested by the caller. copied into the shared state at the
	// start of each frame
	crit          sync.Mutex
	requested     [spec.MaxSprites]SpriteState
	nextOffsets   [spec.NumScrollOffsets]int32
	frameOverride int

	// frame counting. used by core A only
	frameNum       int
	frameIndex     int
	dividerCount   int
	heartbeatCount int
	lastLate       int

	diagsCrit     sync.Mutex
	diags         Diags
	diagsCallback func(Diags)

	// nanoseconds
	peak atomic.Int64
}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(mem Memory, dec FrameDecoder, ser Serialiser, enc Encoder) (*Driver, error) {
	p, err := NewPreferences()
	if err != nil {
		return nil, curated.Errorf("display: %v", err)
	}

	d := &Driver{
		Prefs:         p,
		dma:           dma.NewController(),
		heartbeat:     gpio.NewPin(gpio.PinHeartbeat),
		bankSwitch:    gpio.NewPin(gpio.PinVSync),
		frameOverride: -1,
		sh: &shared{
			prefs:   p,
			mem:     mem,
			dec:     dec,
			ser:     ser,
			enc:     enc,
			toB:     sio.NewFIFO[message](),
			toA:     sio.NewFIFO[ack](),
			gate:    sio.NewGate(),
			started: make(chan error, 1),
		},
	}

	for i := range d.requested {
		d.requested[i] = disabledSprite
		d.sh.sprites[i].SpriteState = disabledSprite
	}

	return d, nil
}

// Init prepares the hardware and reads the frame headers to discover the
// video mode.
func (d *Driver) Init() error {
	if d.initialised {
		return curated.Errorf("display: driver already initialised")
	}

	sh := d.sh

	if err := sh.mem.Init(); err != nil {
		return curated.Errorf("display: %v", err)
	}

	d.heartbeat.Put(false)
	d.bankSwitch.Put(false)

	var err error
	sh.chainCh, err = d.dma.Claim()
	if err != nil {
		return curated.Errorf("display: %v", err)
	}
	sh.clearCh, err = d.dma.Claim()
	if err != nil {
		return curated.Errorf("display: %v", err)
	}

	// every patch shares the same control word. bytes are copied from
	// memory to memory and the chain channel is triggered on completion
	ctrl := dma.Config{
		Size:      dma.Size8,
		IncrRead:  true,
		IncrWrite: true,
		ChainTo:   sh.chainCh.ID(),
	}.Ctrl()
	for i := range sh.grid {
		sh.grid[i].data = nil
		sh.grid[i].ctrl = ctrl
	}

	if err := sh.dec.ReadHeaders(); err != nil {
		return curated.Errorf("display: %v", err)
	}
	d.cfg = sh.dec.Config()
	sh.cfg = d.cfg

	t, err := dvi.TimingFor(d.cfg.Width, d.cfg.Height)
	if err != nil {
		return curated.Errorf("display: %v", err)
	}
	if err := sh.ser.SetTiming(t); err != nil {
		return curated.Errorf("display: %v", err)
	}

	logger.Logf(logger.Allow, "display", "initialised for %v", t)

	d.initialised = true
	return nil
}

// Run the driver. The current goroutine becomes core A and core B is started
// on a new goroutine.
//
// Run returns when the frame header can no longer be read or when the context
// is cancelled. The context is only checked between frames.
func (d *Driver) Run(ctx context.Context) error {
	if !d.initialised {
		return curated.Errorf("display: driver has not been initialised")
	}
	if d.running.Swap(true) {
		return curated.Errorf("display: driver is already running")
	}
	defer d.running.Store(false)

	startup := make(chan *shared, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return coreB(startup)
	})
	g.Go(func() error {
		return d.coreA(ctx, startup)
	})

	return g.Wait()
}

func (d *Driver) coreA(ctx context.Context, startup chan<- *shared) error {
	sh := d.sh

	sh.ser.RegisterCore(0)
	startup <- sh
	sh.gate.Release()

	if err := <-sh.started; err != nil {
		return curated.Errorf("display: %v", err)
	}

	for {
		err := ctx.Err()
		if err == nil {
			err = d.frame()
		}
		if err != nil {
			sh.toB.Push(msgStop{})
			return err
		}
	}
}

// Config returns the frame configuration read by Init().
func (d *Driver) Config() framedecode.Config {
	return d.cfg
}

// Memory returns the memory that the frame data is read from.
func (d *Driver) Memory() Memory {
	return d.sh.mem
}

// ClockKHz returns the TMDS bit clock of the video mode.
func (d *Driver) ClockKHz() int {
	return d.sh.ser.Timing().BitClockKHz
}

// Heartbeat returns the heartbeat pin.
func (d *Driver) Heartbeat() *gpio.Pin {
	return d.heartbeat
}

// BankSwitch returns the pin that is raised when the PSRAM can be switched to
// a different bank.
func (d *Driver) BankSwitch() *gpio.Pin {
	return d.bankSwitch
}

// EnableHeartbeat enables or disables toggling of the heartbeat pin.
func (d *Driver) EnableHeartbeat(enable bool) {
	_ = d.Prefs.Heartbeat.Set(enable)
}

// SetSPIMode sets whether the PSRAM is put into SPI mode during the bank
// switch grace window.
func (d *Driver) SetSPIMode(enable bool) {
	_ = d.Prefs.SPIMode.Set(enable)
}

func checkSprite(i int) error {
	if i < 0 || i >= spec.MaxSprites {
		return curated.Errorf("display: no sprite %d", i)
	}
	return nil
}

// SetSprite sets the sprite table index, position and blend mode of a sprite.
// A negative sprite table index disables the sprite.
func (d *Driver) SetSprite(i int, idx int, x int, y int, blend spec.BlendMode) error {
	if err := checkSprite(i); err != nil {
		return err
	}
	d.crit.Lock()
	defer d.crit.Unlock()
	d.requested[i] = SpriteState{Index: idx, X: x, Y: y, Blend: blend}
	return nil
}

// MoveSprite changes the position of a sprite.
func (d *Driver) MoveSprite(i int, x int, y int) error {
	if err := checkSprite(i); err != nil {
		return err
	}
	d.crit.Lock()
	defer d.crit.Unlock()
	d.requested[i].X = x
	d.requested[i].Y = y
	return nil
}

// ClearSprite disables a sprite.
func (d *Driver) ClearSprite(i int) error {
	if err := checkSprite(i); err != nil {
		return err
	}
	d.crit.Lock()
	defer d.crit.Unlock()
	d.requested[i].Index = -1
	return nil
}

// Sprites returns the state of every sprite as most recently requested.
func (d *Driver) Sprites() []SpriteState {
	d.crit.Lock()
	defer d.crit.Unlock()
	s := make([]SpriteState, len(d.requested))
	copy(s, d.requested[:])
	return s
}

// SetFrameDataAddressOffset sets the offset added to the address of lines
// that select the scroll plane. The offset is applied from the next frame.
func (d *Driver) SetFrameDataAddressOffset(plane int, offset int32) error {
	if plane < 0 || plane >= spec.NumScrollOffsets {
		return curated.Errorf("display: no scroll plane %d", plane)
	}
	d.crit.Lock()
	defer d.crit.Unlock()
	d.nextOffsets[plane] = offset
	return nil
}

// SetFrameCounter sets the frame of the frame data to display next. The frame
// number wraps at the number of frames in the frame data.
func (d *Driver) SetFrameCounter(frame int) {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.frameOverride = max(frame, 0)
}
