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

package dma

// DataSize is the width of a single transfer unit.
type DataSize uint8

// List of valid DataSize values.
const (
	Size8 DataSize = iota
	Size16
	Size32
)

// Bytes returns the number of bytes in a transfer unit of the data size.
func (s DataSize) Bytes() int {
	return 1 << s
}

// Config is the unpacked form of a channel control word.
type Config struct {
	Size      DataSize
	IncrRead  bool
	IncrWrite bool

	// channel to trigger when the transfer completes. a channel chained to
	// itself does not chain
	ChainTo int

	// address wrapping. a RingBits value of zero disables the ring. when
	// RingWrite is false the ring applies to the read address
	RingBits  uint8
	RingWrite bool
}

// DefaultConfig returns the configuration of a channel after reset. Transfers
// are 32 bits wide, the read address increments, the write address does not
// and the channel does not chain.
func DefaultConfig(ch *Channel) Config {
	return Config{
		Size:     Size32,
		IncrRead: true,
		ChainTo:  ch.id,
	}
}

// Ctrl is a packed channel control word. The bit layout is not significant
// outside of this package but a Ctrl value can be stored by callers and shared
// between control blocks.
type Ctrl uint32

const (
	ctrlEnable    = 1 << 0
	ctrlSizeShift = 2
	ctrlSizeMask  = 0x3
	ctrlIncrRead  = 1 << 4
	ctrlIncrWrite = 1 << 5
	ctrlRingShift = 6
	ctrlRingMask  = 0xf
	ctrlRingWrite = 1 << 10
	ctrlChainShft = 11
	ctrlChainMask = 0xf
)

// Ctrl packs the configuration into a control word.
func (c Config) Ctrl() Ctrl {
	w := Ctrl(ctrlEnable)
	w |= Ctrl(c.Size&ctrlSizeMask) << ctrlSizeShift
	if c.IncrRead {
		w |= ctrlIncrRead
	}
	if c.IncrWrite {
		w |= ctrlIncrWrite
	}
	w |= Ctrl(c.RingBits&ctrlRingMask) << ctrlRingShift
	if c.RingWrite {
		w |= ctrlRingWrite
	}
	w |= Ctrl(c.ChainTo&ctrlChainMask) << ctrlChainShft
	return w
}

// Config unpacks the control word.
func (w Ctrl) Config() Config {
	return Config{
		Size:      DataSize((w >> ctrlSizeShift) & ctrlSizeMask),
		IncrRead:  w&ctrlIncrRead == ctrlIncrRead,
		IncrWrite: w&ctrlIncrWrite == ctrlIncrWrite,
		RingBits:  uint8((w >> ctrlRingShift) & ctrlRingMask),
		RingWrite: w&ctrlRingWrite == ctrlRingWrite,
		ChainTo:   int((w >> ctrlChainShft) & ctrlChainMask),
	}
}

// Enabled returns true if the control word has the enable bit set.
func (w Ctrl) Enabled() bool {
	return w&ctrlEnable == ctrlEnable
}
