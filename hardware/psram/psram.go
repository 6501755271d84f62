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

// Package psram emulates the external QSPI PSRAM that holds the frame data.
//
// The device is byte addressed and addresses wrap at the end of the device.
// Reads issued with MultiRead() run asynchronously, as they would with the
// real device being driven by its own DMA channels, and may trigger a DMA
// chain on completion.
package psram

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/picostick/hardware/dma"
)

// Size of the emulated device in bytes.
const Size = 8 * 1024 * 1024

// PageSize is the largest write that the device accepts in one command.
const PageSize = 1024

// Mode is the bus mode of the device.
type Mode int

// List of valid Mode values.
const (
	QPI Mode = iota
	SPI
)

func (m Mode) String() string {
	if m == SPI {
		return "SPI"
	}
	return "QPI"
}

// PSRAM is the emulated device.
type PSRAM struct {
	// data is written by Write() and read by the transfer goroutine of
	// MultiRead(). Write() waits for any transfer to finish first
	data []byte

	mode atomic.Int32

	crit sync.Mutex
	done chan struct{}

	// number of multi-reads issued. useful for tests
	reads atomic.Int64
}

// NewPSRAM is the preferred method of initialisation for the PSRAM type.
func NewPSRAM() *PSRAM {
	return &PSRAM{
		data: make([]byte, Size),
	}
}

// Init puts the device into QPI mode.
func (p *PSRAM) Init() error {
	p.WaitForFinish()
	p.mode.Store(int32(QPI))
	return nil
}

// SetMode changes the bus mode of the device. The mode change waits for any
// transfer in progress.
func (p *PSRAM) SetMode(mode Mode) {
	p.WaitForFinish()
	p.mode.Store(int32(mode))
}

// Mode returns the current bus mode.
func (p *PSRAM) Mode() Mode {
	return Mode(p.mode.Load())
}

func (p *PSRAM) String() string {
	return fmt.Sprintf("psram (%s)", p.Mode())
}

// Write data to address. Writes longer than PageSize are split into several
// commands. Blocks until the write has completed.
func (p *PSRAM) Write(addr uint32, data []byte) {
	p.WaitForFinish()
	for len(data) > 0 {
		n := min(len(data), PageSize)
		p.copyIn(addr, data[:n])
		addr += uint32(n)
		data = data[n:]
	}
}

// Read fills buf with data from address. Blocks until the read has
// completed.
func (p *PSRAM) Read(addr uint32, buf []byte) {
	p.WaitForFinish()
	p.copyOut(addr, buf)
}

// Read32 is a convenience function that reads a single little-endian word.
func (p *PSRAM) Read32(addr uint32) uint32 {
	var b [4]byte
	p.Read(addr, b[:])
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Write32 is a convenience function that writes a single little-endian word.
func (p *PSRAM) Write32(addr uint32, v uint32) {
	p.Write(addr, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// MultiRead reads len(addrs) regions into dest. The regions are placed one
// after the other in dest with the lengths given in lengths.
//
// The function returns immediately. If chain is not nil, the chain channel is
// triggered once every region has been read. WaitForFinish() waits for the
// read only, not for the chain.
func (p *PSRAM) MultiRead(addrs []uint32, lengths []int, dest []byte, chain *dma.Channel) {
	if len(addrs) != len(lengths) {
		panic("psram: MultiRead() addresses and lengths differ in length")
	}

	p.WaitForFinish()

	p.crit.Lock()
	done := make(chan struct{})
	p.done = done
	p.crit.Unlock()

	p.reads.Add(1)

	// copy the arguments because the caller is free to reuse its slices
	// once this function returns
	a := append([]uint32(nil), addrs...)
	l := append([]int(nil), lengths...)

	go func() {
		offset := 0
		for i := range a {
			p.copyOut(a[i], dest[offset:offset+l[i]])
			offset += l[i]
		}
		if chain != nil {
			chain.TriggerChain()
		}
		close(done)
	}()
}

// WaitForFinish blocks until the most recent MultiRead() has completed.
func (p *PSRAM) WaitForFinish() {
	p.crit.Lock()
	done := p.done
	p.crit.Unlock()
	if done != nil {
		<-done
	}
}

// Reads returns the number of multi-reads issued since creation.
func (p *PSRAM) Reads() int {
	return int(p.reads.Load())
}

func (p *PSRAM) copyIn(addr uint32, data []byte) {
	for len(data) > 0 {
		a := int(addr % Size)
		n := copy(p.data[a:], data)
		data = data[n:]
		addr += uint32(n)
	}
}

func (p *PSRAM) copyOut(addr uint32, buf []byte) {
	for len(buf) > 0 {
		a := int(addr % Size)
		n := copy(buf, p.data[a:])
		buf = buf[n:]
		addr += uint32(n)
	}
}
