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

// Package terminal puts the controlling terminal into cbreak mode so that
// single key presses can control the running display, and provides a channel
// of those key presses.
//
// Termios handling is only available on Linux, macOS and the BSDs. On other
// platforms NewTerminal() returns an error and the caller should continue
// without keyboard control.
package terminal
