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

package display

import (
	"runtime"

	"github.com/jetsetilly/picostick/hardware/dma"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// patch is a span of sprite data to be copied over a span of a decoded line.
type patch struct {
	// source of the copy. a nil slice marks an empty slot and the end of the
	// line's list of patches
	data []byte

	// offset into the generation of the line buffer that the line is
	// fetched into
	dest int

	// number of bytes to copy
	len int

	ctrl dma.Ctrl
}

// maximum number of entries in a descriptor chain, not including the sentinel
const maxChainLength = 2 * spec.MaxPatchesPerLine

// patchRef returns the descriptor chain entry for a slot of the patch grid.
// zero is the chain sentinel so references start at one
func patchRef(row int, slot int) uint32 {
	return uint32(row*spec.MaxPatchesPerLine+slot) + 1
}

// Block implements the dma.Blocks interface.
func (sh *shared) Block(ref uint32) dma.Block {
	i := int(ref - 1)
	p := &sh.grid[i]
	row := i / spec.MaxPatchesPerLine
	gen := &sh.lines[(row>>1)&1]
	return dma.Block{
		Read:  p.data[:p.len],
		Write: gen[p.dest : p.dest+p.len],
		Count: p.len,
		Ctrl:  p.ctrl,
	}
}

// collectAndArm builds the descriptor chain for the pair of lines starting at
// line and arms the chain channel with it. Returns the length of the chain
// not including the sentinel. The chain channel is not armed if the length
// is zero.
//
// The chain from the previous call must have been consumed before the
// descriptor buffer can be rewritten. collectAndArm() waits for that.
func (sh *shared) collectAndArm(line int) int {
	sh.waitChain()

	n := 0
	for i := 0; i < 2; i++ {
		row := line + i
		count := 0
		for slot := 0; slot < spec.MaxPatchesPerLine; slot++ {
			if sh.grid[row*spec.MaxPatchesPerLine+slot].data == nil {
				break
			}
			sh.chain[n] = patchRef(row, slot)
			n++
			count++
		}
		sh.stats.maxPatches = max(sh.stats.maxPatches, count)
	}
	sh.chain[n] = 0
	sh.stats.maxChain = max(sh.stats.maxChain, n)

	sh.chainLen = n
	if n > 0 {
		sh.chainCh.ArmChain(sh.chain[:n+1], sh)
	}

	return n
}

// waitChain waits for the most recently armed chain to be consumed. The chain
// channel's read position is polled for a number of iterations proportional
// to the length of the chain. If the chain has not been consumed by then the
// wait falls back to blocking on the PSRAM read and then on the chain channel.
func (sh *shared) waitChain() {
	n := sh.chainLen
	if n == 0 {
		return
	}
	sh.chainLen = 0

	bound := sh.prefs.SpinPerPatch.Get().(int) * n
	for i := 0; sh.chainCh.ReadPos() < n+1; i++ {
		if i >= bound {
			// the chain is triggered by the PSRAM read so the read must
			// have completed before waiting on the chain channel means
			// anything
			sh.mem.WaitForFinish()
			sh.chainCh.WaitForFinish()
			sh.stats.chainStalls++
			return
		}
		runtime.Gosched()
	}
}

// clearAll removes every patch from the grid. The clear is performed by the
// clear channel and is not waited for. It must have completed before the
// next sprite placement.
func (sh *shared) clearAll() {
	sh.clearCh.TriggerWrite(len(sh.grid), func(i int) {
		sh.grid[i].data = nil
	})
}
