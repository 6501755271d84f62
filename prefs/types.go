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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value represents the actual Go preference value.
type Value any

// Pref is implemented by all preference types.
type Pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// Bool implements a boolean type in the prefs system. Values are stored
// atomically because preferences are read by the emulated cores while the
// command line or a script may be changing them.
type Bool struct {
	value    atomic.Bool
	def      bool
	hookPost func(value Value) error
}

// NewBool returns a Bool preference with a default value. The default is
// restored by Reset().
func NewBool(def bool) *Bool {
	p := &Bool{def: def}
	p.value.Store(def)
	return p
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}

	p.value.Store(nv)

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the boolean to its default value.
func (p *Bool) Reset() error {
	return p.Set(p.def)
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated. The callback is called even if the value hasn't changed.
func (p *Bool) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Int implements an integer type in the prefs system. An optional range
// limits the values that can be set.
type Int struct {
	value    atomic.Int64
	def      int
	min, max int
	hookPost func(value Value) error
}

// NewInt returns an Int preference with a default value and an inclusive
// range. If min is greater than or equal to max the range is not enforced.
func NewInt(def int, min int, max int) *Int {
	p := &Int{def: def, min: min, max: max}
	p.value.Store(int64(def))
	return p
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.value.Load())
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int:
		nv = v
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}

	if p.min < p.max && (nv < p.min || nv > p.max) {
		return fmt.Errorf("prefs: value %d out of range (%d to %d)", nv, p.min, p.max)
	}

	p.value.Store(int64(nv))

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the int to its default value.
func (p *Int) Reset() error {
	return p.Set(p.def)
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated.
func (p *Int) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}
