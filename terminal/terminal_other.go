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

//go:build !(linux || darwin || freebsd || openbsd || netbsd)

package terminal

import (
	"os"

	"github.com/jetsetilly/picostick/curated"
)

// Terminal is not available on this platform.
type Terminal struct{}

// NewTerminal always fails on this platform.
func NewTerminal(_ *os.File) (*Terminal, error) {
	return nil, curated.Errorf("terminal: not supported on this platform")
}

func (t *Terminal) CBreakMode() error    { return nil }
func (t *Terminal) CanonicalMode() error { return nil }
func (t *Terminal) Flush() error         { return nil }
