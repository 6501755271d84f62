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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/display"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/logger"
	"github.com/jetsetilly/picostick/modalflag"
	"github.com/jetsetilly/picostick/statsview"
	"github.com/jetsetilly/picostick/terminal"
	"github.com/jetsetilly/picostick/viewer"
)

// how often the diagnostics line is updated in RUN mode
const statusPeriod = 250 * time.Millisecond

const runHelp = `Keys (when stdin is a terminal):
  q	quit
  c	clear peak scanline time and late scanline count
  h	toggle heartbeat
  d	dump diagnostics
  s	save screenshot`

func run(ctx context.Context, md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	md.AdditionalHelp(runHelp)

	bf := addBoardFlags(md)
	frames := md.AddInt("frames", 0, "stop after number of frames. zero to run forever")
	script := md.AddString("script", "", "lua script to animate sprites")
	window := md.AddBool("window", false, "show output in a window")
	scale := md.AddInt("scale", 2, "scaling of window and screenshots")
	paced := md.AddBool("paced", true, "pace output to the video mode")
	dump := md.AddBool("dump", false, "dump diagnostics when finished")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return curated.Errorf("too many arguments for %s mode", md)
	}

	if *stats {
		if !statsview.Available() {
			return curated.Errorf("statsview not available in this build")
		}
		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	b, err := newBoard(bf)
	if err != nil {
		return err
	}
	b.ser.SetPaced(*paced)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	release, err := b.animate(ctx, *script)
	if err != nil {
		return err
	}
	defer release()

	if *frames > 0 {
		b.onFrame(func(d display.Diags) {
			if d.Frame+1 >= *frames {
				cancel()
			}
		})
	}

	st := newStyles()
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return runDriver(ctx, b)
	})

	// status line. printed in place when stdout is a terminal
	g.Go(func() error {
		tick := time.NewTicker(statusPeriod)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				if interactive {
					fmt.Println()
				}
				return nil
			case <-tick.C:
				if interactive {
					fmt.Printf("\r%s\033[K", st.diagsLine(b.drv.Diags()))
				}
			}
		}
	})

	if term.IsTerminal(int(os.Stdin.Fd())) {
		t, err := terminal.NewTerminal(os.Stdin)
		if err != nil {
			logger.Log(logger.Allow, "picostick", err)
		} else if err := t.CBreakMode(); err != nil {
			logger.Log(logger.Allow, "picostick", err)
		} else {
			defer t.CanonicalMode()
			g.Go(func() error {
				return keys(ctx, b, terminal.Keys(ctx, os.Stdin), cancel, *scale)
			})
		}
	}

	if *window {
		v := viewer.NewViewer(ctx, b.cap, b.pat.Width, b.pat.Height, func() string {
			return b.drv.Diags().String()
		})
		sync.window <- func() error {
			return v.Run(*scale)
		}
		err := <-sync.windowErr
		cancel()
		if err != nil {
			_ = g.Wait()
			return err
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if *dump {
		spew.Fdump(os.Stdout, b.drv.Diags())
	}

	return nil
}

// the driver stops at the start of the next frame after cancellation.
// cancellation is not an error
func runDriver(ctx context.Context, b *board) error {
	err := b.drv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handle key presses until the context is cancelled or the keys channel is
// closed
func keys(ctx context.Context, b *board, keys <-chan byte, quit func(), scale int) error {
	heartbeat := b.drv.Prefs.Heartbeat.Get().(bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			switch k {
			case 'q', 'Q':
				quit()
				return nil
			case 'c':
				b.drv.ClearPeakScanlineTime()
				b.drv.ClearLateScanlines()
			case 'h':
				heartbeat = !heartbeat
				b.drv.EnableHeartbeat(heartbeat)
			case 'd':
				fmt.Print("\r\n")
				spew.Fdump(os.Stdout, b.drv.Diags())
			case 's':
				fn := fmt.Sprintf("picostick_%s.png", time.Now().Format("20060102_150405"))
				if err := b.cap.SavePNG(fn, scale); err != nil {
					logger.Log(logger.Allow, "picostick", err)
				} else {
					logger.Logf(logger.Allow, "picostick", "screenshot saved to %s", fn)
				}
			}
		}
	}
}

func screenshot(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("The screenshot is saved to the file named by the first argument, or picostick.png.")

	bf := addBoardFlags(md)
	frames := md.AddInt("frames", 2, "number of frames to run before taking the screenshot")
	script := md.AddString("script", "", "lua script to animate sprites")
	scale := md.AddInt("scale", 1, "scaling of screenshot")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fn := "picostick.png"
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		fn = md.GetArg(0)
	default:
		return curated.Errorf("too many arguments for %s mode", md)
	}

	if *frames < 1 {
		return curated.Errorf("at least one frame is required for a screenshot")
	}

	b, err := newBoard(bf)
	if err != nil {
		return err
	}
	b.ser.SetPaced(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	release, err := b.animate(ctx, *script)
	if err != nil {
		return err
	}
	defer release()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runDriver(ctx, b)
	})
	g.Go(func() error {
		defer cancel()
		return b.cap.Wait(ctx, *frames)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if err := b.cap.SavePNG(fn, *scale); err != nil {
		return err
	}
	fmt.Printf("screenshot of frame %d saved to %s\n", b.cap.Frames(), fn)

	return nil
}

// spriteInfo is used for the memviz graph
type spriteInfo struct {
	Index  int
	Header framedecode.SpriteHeader
	Lines  []framedecode.SpriteLine
}

func info(md *modalflag.Modes) error {
	md.NewMode()

	bf := addBoardFlags(md)
	dump := md.AddBool("dump", false, "dump frame configuration and sprite headers")
	memvizFile := md.AddString("memviz", "", "write graph of frame configuration and sprites to file (dot format)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	b, err := newBoard(bf)
	if err != nil {
		return err
	}

	st := newStyles()
	cfg := b.dec.Config()

	timing, err := dvi.TimingFor(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	fmt.Println(st.heading.Render(" picostick "))
	fmt.Printf("%s %s\n", st.label.Render("frame"), st.value.Render(cfg.String()))
	fmt.Printf("%s %s\n", st.label.Render("timing"), st.value.Render(timing.String()))
	fmt.Printf("%s %s\n", st.label.Render("clock"), st.value.Render(fmt.Sprintf("%dkHz", b.drv.ClockKHz())))
	fmt.Printf("%s %s\n", st.label.Render("memory"), st.value.Render(b.mem.String()))
	fmt.Printf("%s %s\n", st.label.Render("prefs"), st.value.Render(b.drv.Prefs.String()))

	var sprites []spriteInfo
	for _, idx := range b.pat.Sprites {
		hdr, err := b.dec.SpriteHeader(idx)
		if err != nil {
			return err
		}
		si := spriteInfo{
			Index:  idx,
			Header: hdr,
			Lines:  make([]framedecode.SpriteLine, hdr.Height),
		}
		if err := b.dec.Sprite(idx, hdr, si.Lines, make([]byte, hdr.DataSize())); err != nil {
			return err
		}
		sprites = append(sprites, si)
		fmt.Printf("%s %s\n", st.label.Render(fmt.Sprintf("sprite %d", idx)),
			st.value.Render(fmt.Sprintf("%dx%d %s", hdr.Width, hdr.Height, hdr.Mode)))
	}

	if *dump {
		spew.Fdump(os.Stdout, cfg, sprites)
	}

	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			return curated.Errorf("memviz: %v", err)
		}
		defer f.Close()
		memviz.Map(f, &cfg, &sprites)
		fmt.Printf("graph written to %s\n", *memvizFile)
	}

	return nil
}
