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

package dvi_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/spec"
	"github.com/jetsetilly/picostick/test"
)

type recorder struct {
	crit   sync.Mutex
	lines  []int
	frames int
	vsync  chan int
}

func (r *recorder) Scanline(s *dvi.Scanline) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.lines = append(r.lines, s.Line)
}

func (r *recorder) VSync(frame int) {
	r.crit.Lock()
	r.frames++
	r.crit.Unlock()
	r.vsync <- frame
}

func TestTimingFor(t *testing.T) {
	tm, err := dvi.TimingFor(640, 480)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tm.BitClockKHz, 252000)

	// 800 pixel clocks at 25.2MHz
	test.ExpectEquality(t, tm.LinePeriod(), 31746*time.Nanosecond)

	_, err = dvi.TimingFor(641, 480)
	test.ExpectFailure(t, err)
}

func TestStartRequiresCore(t *testing.T) {
	s := dvi.NewSerialiser(nil)
	tm, _ := dvi.TimingFor(320, 240)
	test.DemandSuccess(t, s.SetTiming(tm))

	err := s.Start()
	test.ExpectSuccess(t, curated.Is(err, "dvi: no core has registered interrupt handling"))

	s.RegisterCore(1)
	test.ExpectSuccess(t, s.Start())
	s.Stop()
}

func TestOrder(t *testing.T) {
	r := &recorder{vsync: make(chan int, 1)}
	s := dvi.NewSerialiser(r)
	tm, _ := dvi.TimingFor(320, 240)
	test.DemandSuccess(t, s.SetTiming(tm))
	s.RegisterCore(0)
	test.DemandSuccess(t, s.Start())

	go func() {
		for l := 0; l < tm.Height; l++ {
			b := s.TakeFree()
			b.Line = l
			s.QueueValid(b)
		}
	}()

	test.ExpectEquality(t, <-r.vsync, 0)
	s.Stop()

	test.DemandEquality(t, len(r.lines), tm.Height)
	for i, l := range r.lines {
		test.ExpectEquality(t, l, i)
	}
	test.ExpectEquality(t, s.LateScanlines(), 0)
}

func TestTimingWhileRunning(t *testing.T) {
	s := dvi.NewSerialiser(nil)
	tm, _ := dvi.TimingFor(640, 480)
	test.DemandSuccess(t, s.SetTiming(tm))
	s.RegisterCore(0)
	test.DemandSuccess(t, s.Start())
	test.ExpectFailure(t, s.SetTiming(tm))
	s.Stop()
	test.ExpectSuccess(t, s.SetTiming(tm))
}

// a small mode with a line period long enough to be measured reliably
var slowTiming = dvi.Timing{Name: "slow", Width: 4, Height: 3, HTotal: 4, VTotal: 4, BitClockKHz: 1}

func TestRestartDiscardsStaleLines(t *testing.T) {
	r := &recorder{vsync: make(chan int, 1)}
	s := dvi.NewSerialiser(r)
	test.DemandSuccess(t, s.SetTiming(slowTiming))
	s.RegisterCore(0)
	test.DemandSuccess(t, s.Start())
	s.Stop()

	// lines from a frame that was never finished
	for _, l := range []int{1, 2} {
		b := s.TakeFree()
		b.Line = l
		s.QueueValid(b)
	}

	test.DemandSuccess(t, s.Start())
	for l := 0; l < slowTiming.Height; l++ {
		b := s.TakeFree()
		b.Line = l
		s.QueueValid(b)
	}
	test.ExpectEquality(t, <-r.vsync, 0)
	s.Stop()

	test.ExpectEquality(t, fmt.Sprint(r.lines), "[0 1 2]")
}

func TestStopReturnsBuffers(t *testing.T) {
	s := dvi.NewSerialiser(nil)
	test.DemandSuccess(t, s.SetTiming(slowTiming))
	s.SetPaced(true)
	s.RegisterCore(0)
	start := time.Now()
	test.DemandSuccess(t, s.Start())

	// line zero is transmitted at the end of vertical blanking. the
	// serialiser is still waiting for line one to be due when it stops
	for l := 0; l < 2; l++ {
		b := s.TakeFree()
		b.Line = l
		s.QueueValid(b)
	}
	time.Sleep(time.Until(start.Add(slowTiming.VBlankPeriod() + slowTiming.LinePeriod()/2)))
	s.Stop()

	for i := 0; i < spec.NumOutputBuffers; i++ {
		select {
		case <-takeFree(s):
		case <-time.After(time.Second):
			t.Fatalf("only %d of %d buffers were returned", i, spec.NumOutputBuffers)
		}
	}
}

func takeFree(s *dvi.Serialiser) <-chan *dvi.Scanline {
	c := make(chan *dvi.Scanline, 1)
	go func() {
		c <- s.TakeFree()
	}()
	return c
}

func TestLateScanline(t *testing.T) {
	r := &recorder{vsync: make(chan int, 1)}
	s := dvi.NewSerialiser(r)
	test.DemandSuccess(t, s.SetTiming(slowTiming))
	s.SetPaced(true)
	s.RegisterCore(0)

	period := slowTiming.LinePeriod()
	start := time.Now()
	test.DemandSuccess(t, s.Start())

	queue := func(l int) {
		b := s.TakeFree()
		b.Line = l
		s.QueueValid(b)
	}

	// line zero is queued during vertical blanking. line one is queued half
	// a period after it was due and line two half a period before
	queue(0)
	time.Sleep(time.Until(start.Add(slowTiming.VBlankPeriod() + period + period/2)))
	queue(1)
	queue(2)

	test.ExpectEquality(t, <-r.vsync, 0)
	s.Stop()

	test.ExpectEquality(t, fmt.Sprint(r.lines), "[0 1 2]")
	test.ExpectEquality(t, s.LateScanlines(), 1)
	s.ClearLateScanlines()
	test.ExpectEquality(t, s.LateScanlines(), 0)
}
