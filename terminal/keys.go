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

package terminal

import (
	"context"
	"io"
)

// Keys reads single bytes from r and sends them on the returned channel. The
// channel is closed when r returns an error or when the context is cancelled.
//
// A blocked read on r cannot be interrupted so the reading goroutine may
// outlive the context. The goroutine ends on the next byte or error.
func Keys(ctx context.Context, r io.Reader) <-chan byte {
	keys := make(chan byte)

	go func() {
		defer close(keys)
		b := make([]byte, 1)
		for {
			n, err := r.Read(b)
			if n > 0 {
				select {
				case keys <- b[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}
