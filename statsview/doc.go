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

// Package statsview is an optional HTTP server offering runtime statistics of
// the emulation. It is only built when the statsview build tag is present.
// Without the tag, Available() returns false and Launch() does nothing.
//
// When launched, graphs of memory and goroutine use are viewable at:
//
//	localhost:12600/debug/statsview
//
// The standard pprof pages are at:
//
//	localhost:12600/debug/pprof/
package statsview
