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
	"sync/atomic"
	"time"

	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/dma"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/sio"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// message is sent from core A to core B.
type message interface {
	isMessage()
}

// encode a line into an output buffer
type msgEncodeLine struct {
	line   int
	pixels []byte
	mode   spec.LineMode
	width  int
	out    *dvi.Scanline
}

// load and place a sprite
type msgSetupSprite struct {
	idx int
}

// stop the serialiser and return
type msgStop struct{}

func (msgEncodeLine) isMessage()  {}
func (msgSetupSprite) isMessage() {}
func (msgStop) isMessage()        {}

// ack is sent from core B to core A when a message has been handled
type ack struct {
	// time spent handling the message
	elapsed time.Duration
}

// per-frame counters maintained by core A
type frameStats struct {
	scanline    [2]time.Duration
	maxScanline [2]time.Duration
	maxPatches  int
	maxChain    int
	chainStalls int
}

// shared is the state used by both cores. it is created once by NewDriver()
// and handed to core B when the driver starts running.
//
// fields are written by core A only, except for the patch grid which is
// written by whichever core is placing a sprite. in all cases the FIFO
// provides the ordering between a write by one core and a read by the other
type shared struct {
	prefs *Preferences

	mem Memory
	dec FrameDecoder
	ser Serialiser
	enc Encoder

	toB *sio.FIFO[message]
	toA *sio.FIFO[ack]
	gate *sio.Gate

	// result of starting the serialiser on core B
	started chan error

	chainCh *dma.Channel
	clearCh *dma.Channel

	// configuration of the frame being displayed
	cfg   framedecode.Config
	table [spec.MaxFrameHeight]framedecode.FrameTableEntry

	// active frame address offsets
	offsets [spec.NumScrollOffsets]int32

	sprites [spec.MaxSprites]sprite

	grid     [spec.MaxFrameHeight * spec.MaxPatchesPerLine]patch
	chain    [maxChainLength + 1]uint32
	chainLen int

	// double line buffer. each generation holds a pair of lines. the length
	// of each line in the generation is recorded by fetchTwoLines()
	lines   [2][spec.LineBufferSize]byte
	lineLen [2][2]int

	// arguments to the PSRAM multi-read
	addrs   [2]uint32
	lengths [2]int

	stats     frameStats
	overflows atomic.Int64
}

// coreB is the service loop of the second core. the shared state arrives on
// the startup channel
func coreB(startup <-chan *shared) error {
	sh := <-startup

	sh.ser.RegisterCore(1)
	sh.gate.Acquire()

	err := sh.ser.Start()
	sh.started <- err
	if err != nil {
		return err
	}

	for {
		switch m := sh.toB.Pop().(type) {
		case msgEncodeLine:
			start := time.Now()
			encodeLine(sh.enc, m)
			sh.toA.Push(ack{elapsed: time.Since(start)})
		case msgSetupSprite:
			start := time.Now()
			s := &sh.sprites[m.idx]
			s.load(sh.dec)
			s.place(sh)
			sh.toA.Push(ack{elapsed: time.Since(start)})
		case msgStop:
			sh.ser.Stop()
			return nil
		}
	}
}

// updateSprites loads and places every sprite. even numbered sprites are
// handled by core B while core A handles the odd numbered sprites. placement
// is ordered by sprite number so that patches on the same line are in sprite
// order
func (sh *shared) updateSprites() {
	for i := 0; i < spec.MaxSprites; i += 2 {
		sh.toB.Push(msgSetupSprite{idx: i})
		s := &sh.sprites[i+1]
		s.load(sh.dec)
		sh.toA.Pop()
		s.place(sh)
	}
}

// stream fetches and encodes the frame. the first pair of lines must already
// have been fetched. onReadsDone is called once every line has been read from
// PSRAM and every patch has been applied
func (sh *shared) stream(onReadsDone func()) {
	height := sh.cfg.Height

	for line := 2; line < height+2; line += 2 {
		if line < height {
			sh.fetchTwoLines(line)
		} else {
			sh.mem.WaitForFinish()
			sh.waitChain()
			onReadsDone()
			sh.clearAll()
		}

		even := line - 2

		bufB := sh.ser.TakeFree()
		sh.toB.Push(msgEncodeLine{
			line:   even,
			pixels: sh.decoded(even),
			mode:   sh.table[even].Mode(),
			width:  sh.cfg.Width,
			out:    bufB,
		})

		bufA := sh.ser.TakeFree()
		start := time.Now()
		encodeLine(sh.enc, msgEncodeLine{
			line:   even + 1,
			pixels: sh.decoded(even + 1),
			mode:   sh.table[even+1].Mode(),
			width:  sh.cfg.Width,
			out:    bufA,
		})
		sh.recordScanline(0, time.Since(start))

		a := sh.toA.Pop()
		sh.recordScanline(1, a.elapsed)

		sh.ser.QueueValid(bufB)
		sh.ser.QueueValid(bufA)
	}
}

func (sh *shared) recordScanline(core int, d time.Duration) {
	sh.stats.scanline[core] += d
	sh.stats.maxScanline[core] = max(sh.stats.maxScanline[core], d)
}
