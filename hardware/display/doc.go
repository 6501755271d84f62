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

// Package display is the scanline pipeline of the DVI display driver.
//
// The driver runs on two emulated cores. Core A owns the frame: it reads the
// frame header, resolves the frame table, places sprites, fetches lines from
// PSRAM and encodes the odd line of each pair of lines. Core B encodes the even
// line of each pair and shares the work of setting up sprites. The cores
// communicate over the inter-core FIFO only.
//
// Sprites are not drawn by either core. Sprite placement turns each row of a
// sprite into a patch: a span of sprite data that must be copied over a span
// of a decoded line. The patches of the two lines being fetched are collected
// into a descriptor chain which the DMA hardware walks once the PSRAM read for
// the lines has completed.
//
// Lines are fetched in pairs into a double line buffer. While one generation
// of the buffer is being filled by PSRAM and the descriptor chain, the other
// generation is being encoded by the cores.
//
// Nothing guards the patch grid or the line buffers except the order in which
// the phases of the frame happen. The frame scheduler in scheduler.go
// describes that order.
package display
