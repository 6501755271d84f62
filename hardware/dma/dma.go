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

// Package dma emulates the memory-to-memory transfer hardware used by the
// display driver.
//
// Channels run independently of the emulated cores. A transfer is started
// with one of the Trigger functions and runs on its own goroutine. The cores
// synchronise with a channel either by blocking in WaitForFinish() or by
// polling ReadPos() in the case of a descriptor chain.
//
// A descriptor chain is a zero terminated list of references to control
// blocks. The chain channel reads one reference at a time, loads the
// referenced Block and performs it as a copy. The read position advances only
// after the previous block has been fully written, so a caller that observes
// the read position past the final entry can be sure that every block in the
// chain has been applied.
package dma

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// NumChannels is the number of channels available to be claimed.
const NumChannels = 12

// Block is a single transfer as loaded from a control block.
type Block struct {
	Read  []byte
	Write []byte

	// number of transfer units. the size of each unit is taken from the
	// control word
	Count int

	Ctrl Ctrl
}

// Blocks resolves the entries of a descriptor list to the control blocks they
// refer to. A reference of zero is never passed to Block().
type Blocks interface {
	Block(ref uint32) Block
}

// Controller owns the channels.
type Controller struct {
	crit     sync.Mutex
	channels [NumChannels]*Channel
	claimed  [NumChannels]bool
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController() *Controller {
	c := &Controller{}
	for i := range c.channels {
		c.channels[i] = &Channel{id: i}
	}
	return c
}

// Claim an unused channel.
func (c *Controller) Claim() (*Channel, error) {
	c.crit.Lock()
	defer c.crit.Unlock()
	for i := range c.claimed {
		if !c.claimed[i] {
			c.claimed[i] = true
			return c.channels[i], nil
		}
	}
	return nil, fmt.Errorf("dma: no unused channels")
}

// Unclaim returns a channel to the pool. The channel should not be busy.
func (c *Controller) Unclaim(ch *Channel) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.claimed[ch.id] = false
}

// Channel is a single DMA channel.
type Channel struct {
	id int

	// closed when the most recently triggered transfer completes. nil if
	// the channel has never been triggered
	crit sync.Mutex
	done chan struct{}

	// the armed descriptor list and the resolver for its entries
	list   []uint32
	blocks Blocks

	// number of entries of the descriptor list that have been read
	readPos atomic.Int64
}

// ID returns the channel number.
func (ch *Channel) ID() int {
	return ch.id
}

func (ch *Channel) String() string {
	return fmt.Sprintf("dma%d", ch.id)
}

// start marks the channel as busy and returns the completion channel for the
// new transfer. a trigger that arrives while the channel is still completing
// the previous transfer is held until that transfer has finished. each
// channel is only ever triggered from one goroutine at a time
func (ch *Channel) start() chan struct{} {
	ch.WaitForFinish()
	ch.crit.Lock()
	defer ch.crit.Unlock()
	ch.done = make(chan struct{})
	return ch.done
}

// Busy returns true if a transfer is in progress.
func (ch *Channel) Busy() bool {
	ch.crit.Lock()
	done := ch.done
	ch.crit.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// WaitForFinish blocks until the most recent transfer has completed. Returns
// immediately if the channel is idle.
func (ch *Channel) WaitForFinish() {
	ch.crit.Lock()
	done := ch.done
	ch.crit.Unlock()
	if done != nil {
		<-done
	}
}

// TriggerCopy starts a single block transfer.
func (ch *Channel) TriggerCopy(b Block) {
	done := ch.start()
	go func() {
		apply(b)
		close(done)
	}()
}

// TriggerWrite starts a transfer of count units to a destination that is not
// plain memory. The write function is called once for each unit, in order, on
// the channel's goroutine.
func (ch *Channel) TriggerWrite(count int, write func(i int)) {
	done := ch.start()
	go func() {
		for i := 0; i < count; i++ {
			write(i)
		}
		close(done)
	}()
}

// ArmChain sets the descriptor list that will be walked when the channel is
// next triggered with TriggerChain(). The read position is reset to zero.
//
// The list is not copied. The caller must not modify it until the read
// position shows that the chain has been consumed.
func (ch *Channel) ArmChain(list []uint32, blocks Blocks) {
	ch.crit.Lock()
	defer ch.crit.Unlock()
	ch.list = list
	ch.blocks = blocks
	ch.readPos.Store(0)
}

// TriggerChain walks the armed descriptor list. It is normally called by
// another device when its own transfer completes.
func (ch *Channel) TriggerChain() {
	done := ch.start()

	ch.crit.Lock()
	list := ch.list
	blocks := ch.blocks
	ch.crit.Unlock()

	go func() {
		for i, ref := range list {
			ch.readPos.Store(int64(i + 1))
			if ref == 0 {
				break
			}
			apply(blocks.Block(ref))
		}
		close(done)
	}()
}

// ReadPos returns the number of descriptor entries that have been read by the
// chain. An entry is only read once the block referred to by the previous
// entry has been applied.
func (ch *Channel) ReadPos() int {
	return int(ch.readPos.Load())
}

// apply performs the block as configured by its control word
func apply(b Block) {
	if !b.Ctrl.Enabled() {
		return
	}

	cfg := b.Ctrl.Config()
	unit := cfg.Size.Bytes()

	// fast path for the common byte copy
	if cfg.IncrRead && cfg.IncrWrite && cfg.RingBits == 0 {
		n := b.Count * unit
		copy(b.Write[:n], b.Read[:n])
		return
	}

	ring := 0
	if cfg.RingBits > 0 {
		ring = 1 << cfg.RingBits
	}

	for i := 0; i < b.Count; i++ {
		r := 0
		if cfg.IncrRead {
			r = i * unit
		}
		w := 0
		if cfg.IncrWrite {
			w = i * unit
		}
		if ring > 0 {
			if cfg.RingWrite {
				w %= ring
			} else {
				r %= ring
			}
		}
		copy(b.Write[w:w+unit], b.Read[r:r+unit])
	}
}
