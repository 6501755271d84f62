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

// Package demo writes a test pattern and a small set of sprites to PSRAM and
// animates the sprites while the display is running.
//
// The pattern is a rainbow in RGB565, with hue changing across the line and
// saturation changing down the frame. Every line uses scroll plane zero and
// the pixel data for each line is stored twice over, so offsets between zero
// and the byte length of a line scroll the pattern horizontally without
// reading past the line's data.
//
// Sprites are animated either by a Bouncer, which moves sprites around the
// frame and reverses them at the edges, or by a Lua script. See Script for
// the functions available to a script.
package demo
