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

// Package curated is a helper package for the plain Go error type. Curated
// errors are created with Errorf(), which takes a formatting pattern and
// values in the same way as fmt.Errorf().
//
// The pattern is remembered and is used to identify the error later with the
// Is() and Has() functions:
//
//	e := curated.Errorf("framedecode: bad magic (%#08x)", magic)
//
//	if curated.Is(e, "framedecode: bad magic (%#08x)") {
//		...
//	}
//
// Has() checks the whole chain of curated errors, so a pattern wrapped inside
// another curated error will still be found:
//
//	f := curated.Errorf("display: %v", e)
//	curated.Has(f, "framedecode: bad magic (%#08x)") // true
//	curated.Is(f, "framedecode: bad magic (%#08x)")  // false
//
// The Error() implementation removes duplicate adjacent parts of the message.
// This means that each layer of a program can wrap an error with its own
// prefix without the message repeating itself:
//
//	display: display: header not found
//
// is normalised to
//
//	display: header not found
package curated
