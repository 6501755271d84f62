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

// Package test contains helper functions to remove common boilerplate from
// the package tests.
//
// The Expect functions report a failure and allow the test to continue. The
// Demand functions stop the test immediately and should be used when later
// parts of the test depend on the value being correct, for example when
// checking the length of a slice before indexing it.
//
// Success and failure are interpreted according to the type of the value.
// For bool, true is success. For error, nil is success. An untyped nil is
// considered a success because of how errors are normally returned.
package test
