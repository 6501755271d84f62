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

package main

import (
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/picostick/hardware/display"
	"github.com/jetsetilly/picostick/modalflag"
	"github.com/jetsetilly/picostick/test"
)

func TestScreenshot(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "shot.png")

	md := &modalflag.Modes{Output: io.Discard}
	md.NewArgs([]string{"-width", "320", "-height", "240", "-frames", "2", fn})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	test.DemandSuccess(t, screenshot(ctx, md))

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds().Dx(), 320)
	test.ExpectEquality(t, img.Bounds().Dy(), 240)

	// the value of the rainbow is zero on the first line of every band
	for _, y := range []int{0, 20} {
		r, g, b, _ := img.At(5, y).RGBA()
		test.ExpectEquality(t, r|g|b, 0, y)
	}
	r, g, b, _ := img.At(5, 10).RGBA()
	test.ExpectSuccess(t, r|g|b != 0)
}

func TestScreenshotArgs(t *testing.T) {
	md := &modalflag.Modes{Output: io.Discard}
	md.NewArgs([]string{"a.png", "b.png"})
	test.ExpectFailure(t, screenshot(context.Background(), md))

	md = &modalflag.Modes{Output: io.Discard}
	md.NewArgs([]string{"-frames", "0"})
	test.ExpectFailure(t, screenshot(context.Background(), md))
}

func TestDiagsLine(t *testing.T) {
	st := newStyles()

	d := display.Diags{
		Frame:                 10,
		FrameIndex:            1,
		VSyncTime:             time.Millisecond,
		AvailableVSyncTime:    2 * time.Millisecond,
		PeakScanlineTime:      time.Microsecond,
		AvailableScanlineTime: 2 * time.Microsecond,
		MaxPatches:            3,
		MaxChainLength:        5,
	}
	s := st.diagsLine(d)
	test.ExpectSuccess(t, strings.Contains(s, "10:1"))
	test.ExpectSuccess(t, strings.Contains(s, "3/5"))
	test.ExpectSuccess(t, !strings.Contains(s, "overflow"))

	d.PatchOverflows = 2
	s = st.diagsLine(d)
	test.ExpectSuccess(t, strings.Contains(s, "overflow 2 stall 0"))
}
