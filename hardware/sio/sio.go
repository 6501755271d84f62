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

// Package sio emulates the single-cycle IO block shared by the two cores: the
// inter-core FIFOs and a one-shot start gate.
//
// The hardware FIFOs carry raw words. The emulation carries typed values so
// that each end of the FIFO can switch on the message type rather than
// decoding tags from numeric fields.
package sio

// FIFODepth is the depth of each direction of the inter-core FIFO.
const FIFODepth = 4

// FIFO is one direction of the inter-core FIFO. Push blocks when the FIFO is
// full and Pop blocks when it is empty.
type FIFO[T any] struct {
	ch chan T
}

// NewFIFO is the preferred method of initialisation for the FIFO type.
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{ch: make(chan T, FIFODepth)}
}

// Push a value, blocking if the FIFO is full.
func (f *FIFO[T]) Push(v T) {
	f.ch <- v
}

// Pop a value, blocking if the FIFO is empty.
func (f *FIFO[T]) Pop() T {
	return <-f.ch
}

// TryPop returns the next value if one is available without blocking.
func (f *FIFO[T]) TryPop() (T, bool) {
	select {
	case v := <-f.ch:
		return v, true
	default:
		var z T
		return z, false
	}
}

// Len returns the number of values waiting in the FIFO.
func (f *FIFO[T]) Len() int {
	return len(f.ch)
}

// Gate is a binary semaphore. A core waiting on the gate is released by a
// single call to Release().
type Gate struct {
	ch chan struct{}
}

// NewGate returns a gate in the closed state.
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{}, 1)}
}

// Release the gate. Releasing an already released gate has no effect.
func (g *Gate) Release() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Acquire blocks until the gate has been released and then closes it again.
func (g *Gate) Acquire() {
	<-g.ch
}
