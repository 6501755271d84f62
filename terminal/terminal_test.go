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

package terminal_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jetsetilly/picostick/terminal"
	"github.com/jetsetilly/picostick/test"
)

func TestNotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notterm")
	test.DemandSuccess(t, err)
	defer f.Close()

	_, err = terminal.NewTerminal(f)
	test.ExpectFailure(t, err)

	_, err = terminal.NewTerminal(nil)
	test.ExpectFailure(t, err)
}

func TestKeys(t *testing.T) {
	keys := terminal.Keys(context.Background(), strings.NewReader("qd"))

	var s strings.Builder
	for k := range keys {
		s.WriteByte(k)
	}
	test.ExpectEquality(t, s.String(), "qd")
}

func TestKeysCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r, w, err := os.Pipe()
	test.DemandSuccess(t, err)
	defer r.Close()

	keys := terminal.Keys(ctx, r)
	_, err = w.Write([]byte{'x', 'y'})
	test.DemandSuccess(t, err)
	cancel()
	w.Close()

	// channel is closed whether or not any keys were delivered
	n := 0
	for range keys {
		n++
	}
	test.ExpectSuccess(t, n <= 2)
}
