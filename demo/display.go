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

package demo

import (
	"github.com/jetsetilly/picostick/hardware/spec"
)

// Display is the part of the display driver used to animate sprites. All
// methods are called from the driver's diagnostics callback, between frames.
type Display interface {
	SetSprite(i int, idx int, x int, y int, blend spec.BlendMode) error
	MoveSprite(i int, x int, y int) error
	ClearSprite(i int) error
	SetFrameDataAddressOffset(plane int, offset int32) error
	EnableHeartbeat(enable bool)
}
