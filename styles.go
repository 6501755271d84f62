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
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jetsetilly/picostick/hardware/display"
)

type styles struct {
	label   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	warning lipgloss.Style
	heading lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White

func newStyles() styles {
	return styles{
		label:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		value:   lipgloss.NewStyle().Bold(true),
		good:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(0)).Background(lipgloss.ANSIColor(3)),
	}
}

// budget styles the used time against the available time. the value is shown
// as a warning if the budget is exceeded
func (st styles) budget(label string, used fmt.Stringer, over bool, available fmt.Stringer) string {
	v := st.good
	if over {
		v = st.warning
	}
	return fmt.Sprintf("%s %s/%s", st.label.Render(label), v.Render(used.String()), st.value.Render(available.String()))
}

// diagsLine is a single line summary of the diagnostics
func (st styles) diagsLine(d display.Diags) string {
	s := strings.Builder{}
	s.WriteString(st.label.Render("frame "))
	s.WriteString(st.value.Render(fmt.Sprintf("%d:%d", d.Frame, d.FrameIndex)))
	s.WriteString("  ")
	s.WriteString(st.budget("vsync", d.VSyncTime, d.VSyncTime > d.AvailableVSyncTime, d.AvailableVSyncTime))
	s.WriteString("  ")
	s.WriteString(st.budget("scanline", d.PeakScanlineTime, d.PeakScanlineTime > d.AvailableScanlineTime, d.AvailableScanlineTime))
	s.WriteString("  ")
	s.WriteString(st.label.Render("patches "))
	s.WriteString(st.value.Render(fmt.Sprintf("%d/%d", d.MaxPatches, d.MaxChainLength)))

	late := st.good
	if d.TotalLateScanlines > 0 {
		late = st.warning
	}
	s.WriteString("  ")
	s.WriteString(st.label.Render("late "))
	s.WriteString(late.Render(fmt.Sprintf("%d", d.TotalLateScanlines)))

	if d.PatchOverflows > 0 || d.ChainStalls > 0 {
		s.WriteString("  ")
		s.WriteString(st.warning.Render(fmt.Sprintf("overflow %d stall %d", d.PatchOverflows, d.ChainStalls)))
	}

	return s.String()
}
