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

// Package dvi emulates the serialiser that streams encoded scanlines to the
// DVI output.
//
// Encoded scanlines are exchanged with the serialiser through two queues.
// Producers take an empty buffer from the free queue, fill it and add it to
// the valid queue. The serialiser transmits valid buffers strictly in the
// order they were queued and returns them to the free queue.
//
// When pacing is enabled the serialiser transmits at the rate given by the
// video timing and a buffer that arrives after its line should have started
// is counted as a late scanline. The late buffer is still transmitted, so the
// order of lines is never disturbed. Without pacing the serialiser consumes
// buffers as soon as they are valid, which is how the tests run.
package dvi

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// Scanline is an output buffer. The buffers are allocated once by the
// serialiser and reused.
type Scanline struct {
	// the display line that the buffer holds. set by the producer
	Line int

	// number of pixels encoded into the buffer
	Width int

	Symbols [spec.OutputBufferWords]uint32

	// when the buffer was added to the valid queue
	queued time.Time
}

// Sink receives the transmitted video signal.
type Sink interface {
	// Scanline is called for each active line as it is transmitted. The
	// scanline must not be retained after the function returns
	Scanline(s *Scanline)

	// VSync is called at the end of the active area of each frame
	VSync(frame int)
}

// Serialiser is the emulated DVI serialiser.
type Serialiser struct {
	buffers [spec.NumOutputBuffers]Scanline
	free    chan *Scanline
	valid   chan *Scanline

	timing atomic.Pointer[Timing]
	paced  atomic.Bool

	sink Sink

	late atomic.Int64

	// the cores that have registered interrupt handling with the serialiser.
	// at least one must be registered before Start()
	registered [2]atomic.Bool

	crit    sync.Mutex
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

// NewSerialiser is the preferred method of initialisation for the Serialiser
// type. The sink may be nil.
func NewSerialiser(sink Sink) *Serialiser {
	s := &Serialiser{
		free:  make(chan *Scanline, spec.NumOutputBuffers),
		valid: make(chan *Scanline, spec.NumOutputBuffers),
		sink:  sink,
	}
	for i := range s.buffers {
		s.free <- &s.buffers[i]
	}
	return s
}

// SetTiming sets the video mode. Must not be called while the serialiser is
// running.
func (s *Serialiser) SetTiming(t Timing) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	if s.running {
		return curated.Errorf("dvi: cannot change timing while running")
	}
	if t.Width > spec.MaxFrameWidth || t.Height > spec.MaxFrameHeight {
		return curated.Errorf("dvi: timing %v exceeds maximum frame size", t)
	}
	s.timing.Store(&t)
	return nil
}

// Timing returns the current video mode.
func (s *Serialiser) Timing() Timing {
	if t := s.timing.Load(); t != nil {
		return *t
	}
	return Timing{}
}

// SetPaced enables or disables real-time pacing of the output.
func (s *Serialiser) SetPaced(paced bool) {
	s.paced.Store(paced)
}

// RegisterCore registers the calling core's half of the interrupt handling.
func (s *Serialiser) RegisterCore(core int) {
	s.registered[core&1].Store(true)
}

// TakeFree removes an empty buffer from the free queue, blocking until one
// is available.
func (s *Serialiser) TakeFree() *Scanline {
	return <-s.free
}

// QueueValid adds a filled buffer to the valid queue, blocking if the queue
// is full.
func (s *Serialiser) QueueValid(b *Scanline) {
	b.queued = time.Now()
	s.valid <- b
}

// LateScanlines returns the number of scanlines that were not ready in time.
func (s *Serialiser) LateScanlines() int {
	return int(s.late.Load())
}

// ClearLateScanlines resets the late scanline counter.
func (s *Serialiser) ClearLateScanlines() {
	s.late.Store(0)
}

// Start signal generation.
func (s *Serialiser) Start() error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.running {
		return nil
	}
	if !s.registered[0].Load() && !s.registered[1].Load() {
		return curated.Errorf("dvi: no core has registered interrupt handling")
	}
	if s.timing.Load() == nil {
		return curated.Errorf("dvi: timing has not been set")
	}

	// buffers left in the valid queue by an earlier run belong to a frame
	// that will never be completed. the new run starts at line zero so they
	// are returned to the free queue
	for drained := false; !drained; {
		select {
		case b := <-s.valid:
			s.free <- b
		default:
			drained = true
		}
	}

	s.running = true
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(*s.timing.Load(), s.stop, s.stopped)

	return nil
}

// Stop signal generation. Blocks until the serialiser has stopped.
func (s *Serialiser) Stop() {
	s.crit.Lock()
	defer s.crit.Unlock()

	if !s.running {
		return
	}
	close(s.stop)
	<-s.stopped
	s.running = false
}

func (s *Serialiser) String() string {
	return fmt.Sprintf("dvi: %v", s.Timing())
}

func (s *Serialiser) run(t Timing, stop chan struct{}, stopped chan struct{}) {
	defer close(stopped)

	period := t.LinePeriod()

	wait := func(until time.Time) bool {
		d := time.Until(until)
		if d <= 0 {
			return true
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return true
		case <-stop:
			return false
		}
	}

	frameStart := time.Now()

	for frame := 0; ; frame++ {
		paced := s.paced.Load()

		if paced {
			frameStart = frameStart.Add(t.VBlankPeriod())
			if !wait(frameStart) {
				return
			}
		}

		for line := 0; line < t.Height; line++ {
			var b *Scanline
			select {
			case b = <-s.valid:
			case <-stop:
				return
			}

			if paced {
				due := frameStart.Add(time.Duration(line) * period)
				if b.queued.After(due) {
					s.late.Add(1)
				} else if !wait(due) {
					s.free <- b
					return
				}
			}

			if s.sink != nil {
				s.sink.Scanline(b)
			}
			s.free <- b
		}

		if paced {
			frameStart = frameStart.Add(time.Duration(t.Height) * period)

			// a frame that has fallen too far behind restarts its timing
			// rather than accumulating lateness forever
			if time.Since(frameStart) > t.FramePeriod() {
				frameStart = time.Now()
			}
		}

		if s.sink != nil {
			s.sink.VSync(frame)
		}
	}
}
