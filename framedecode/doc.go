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

// Package framedecode reads the frame description that the application
// processor places at the start of PSRAM.
//
// All values are little-endian 32 bit words. The header is at address zero:
//
//	0   magic "PICO"
//	1   version (byte 0), frame divider (byte 1)
//	2   width (low half), height (high half)
//	3   number of frames
//	4   address of the frame tables
//	5   number of sprites
//	6   address of the sprite table
//
// There is one frame table for each frame, each with one entry for every
// line of the display. A frame table entry gives the address of the line's
// pixel data, the line mode and the scroll plane whose offset is added to the
// address (see FrameTableEntry).
//
// The sprite table is a list of addresses of sprite records. A sprite record
// is a header word (width, height and mode in bytes 0 to 2), followed by one
// word per row (signed offset in byte 0, width in byte 1, start of the row's
// data in the high half) and then the pixel payload. The data start of a row
// is relative to the start of the payload.
//
// The Builder type creates frame descriptions in the same format and is used
// by the demo package and by tests.
package framedecode
