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

//go:build linux || darwin || freebsd || openbsd || netbsd

package terminal

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/jetsetilly/picostick/curated"
)

// Terminal wraps the termios attributes of an input file.
type Terminal struct {
	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	cbreak bool
}

// NewTerminal is the preferred method of initialisation for the Terminal
// type. The input file must be a terminal.
func NewTerminal(input *os.File) (*Terminal, error) {
	if input == nil {
		return nil, curated.Errorf("terminal: no input file")
	}

	t := &Terminal{input: input}

	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return nil, curated.Errorf("terminal: %v", err)
	}

	// cbreak attributes start from the canonical attributes so that output
	// processing is unchanged
	t.cbreakAttr = t.canAttr
	termios.Cfmakecbreak(&t.cbreakAttr)

	return t, nil
}

// CBreakMode puts terminal into cbreak mode.
func (t *Terminal) CBreakMode() error {
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.cbreakAttr); err != nil {
		return curated.Errorf("terminal: %v", err)
	}
	t.cbreak = true
	return nil
}

// CanonicalMode puts terminal back into the mode it was in when NewTerminal()
// was called. Does nothing if CBreakMode() has not been called.
func (t *Terminal) CanonicalMode() error {
	if !t.cbreak {
		return nil
	}
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr); err != nil {
		return curated.Errorf("terminal: %v", err)
	}
	t.cbreak = false
	return nil
}

// Flush discards any pending input.
func (t *Terminal) Flush() error {
	return termios.Tcflush(t.input.Fd(), termios.TCIFLUSH)
}
