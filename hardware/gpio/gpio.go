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

// Package gpio emulates the output pins used by the display driver to signal
// the application processor.
package gpio

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Pin numbers used by the display driver.
const (
	PinHeartbeat = 25
	PinVSync     = 16
)

// Observer is notified of every change of level of a pin.
type Observer func(pin int, level bool)

// Pin is a single output pin.
type Pin struct {
	num   int
	level atomic.Bool

	// number of level changes since initialisation
	transitions atomic.Int64

	crit     sync.Mutex
	observer Observer
}

// NewPin returns an output pin initialised to low.
func NewPin(num int) *Pin {
	return &Pin{num: num}
}

func (p *Pin) String() string {
	l := "low"
	if p.Get() {
		l = "high"
	}
	return fmt.Sprintf("gpio%d (%s)", p.num, l)
}

// Num returns the pin number.
func (p *Pin) Num() int {
	return p.num
}

// Put sets the level of the pin.
func (p *Pin) Put(level bool) {
	if p.level.Swap(level) == level {
		return
	}
	p.transitions.Add(1)

	p.crit.Lock()
	o := p.observer
	p.crit.Unlock()
	if o != nil {
		o(p.num, level)
	}
}

// Get returns the current level of the pin.
func (p *Pin) Get() bool {
	return p.level.Load()
}

// Toggle inverts the level of the pin.
func (p *Pin) Toggle() {
	p.Put(!p.Get())
}

// Transitions returns the number of level changes.
func (p *Pin) Transitions() int {
	return int(p.transitions.Load())
}

// SetObserver sets the function to call when the pin changes level. A nil
// observer removes the existing observer.
func (p *Pin) SetObserver(o Observer) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.observer = o
}
