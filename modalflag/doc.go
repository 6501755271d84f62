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

// Package modalflag extends the flag package with program modes. Each mode has
// its own set of flags and the first argument that is not a flag selects the
// next mode. For example, the command line:
//
//	picostick -prefs "display.grace::20" SCREENSHOT -scale 2 out.png
//
// is parsed with two calls to Parse(). The first call parses the top level
// flags and selects the SCREENSHOT mode. NewMode() is then called and the
// flags of the SCREENSHOT mode are added before the second call to Parse().
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "SCREENSHOT", "INFO")
//	prefs := md.AddString("prefs", "", "preferences")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "SCREENSHOT":
//		md.NewMode()
//		scale := md.AddInt("scale", 1, "scaling of the image")
//		...
//	}
//
// The first sub-mode in the list is the default mode and is selected when the
// arguments do not name a mode. Mode names are not case sensitive.
//
// Help is printed automatically when the -help flag is given and includes the
// list of sub-modes.
package modalflag
