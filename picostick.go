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
	"fmt"
	"os"
	"os/signal"

	"github.com/jetsetilly/picostick/capture"
	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/demo"
	"github.com/jetsetilly/picostick/framedecode"
	"github.com/jetsetilly/picostick/hardware/display"
	"github.com/jetsetilly/picostick/hardware/dvi"
	"github.com/jetsetilly/picostick/hardware/psram"
	"github.com/jetsetilly/picostick/hardware/tmds"
	"github.com/jetsetilly/picostick/logger"
	"github.com/jetsetilly/picostick/modalflag"
	"github.com/jetsetilly/picostick/prefs"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function. the
// viewer window must be run on the main thread so launch() sends a function
// to main() which runs it and returns the result
type mainSync struct {
	state chan stateRequest

	window    chan func() error
	windowErr chan error
}

// #mainthread
func main() {
	sync := &mainSync{
		state:     make(chan stateRequest),
		window:    make(chan func() error),
		windowErr: make(chan error),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// #ctrlc cancels the context. launch() will send reqQuit once the
	// display has stopped. the handler runs on its own goroutine because the
	// main thread is blocked while the viewer window is open
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		for range intChan {
			fmt.Println("\r")
			cancel()
		}
	}()

	go launch(ctx, sync)

	done := false
	for !done {
		select {
		case w := <-sync.window:
			sync.windowErr <- w()

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// run the viewer window and to quit.
func launch(ctx context.Context, sync *mainSync) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "SCREENSHOT", "INFO")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, sync)

	case "SCREENSHOT":
		err = screenshot(ctx, md)

	case "INFO":
		err = info(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// the emulated board with the demo pattern loaded into PSRAM
type board struct {
	mem *psram.PSRAM
	dec *framedecode.Decoder
	cap *capture.Capture
	ser *dvi.Serialiser
	drv *display.Driver
	pat demo.Pattern

	callbacks []func(display.Diags)
}

// flags common to all modes that create a board
type boardFlags struct {
	width  *int
	height *int
	prefs  *string
	log    *bool
}

func addBoardFlags(md *modalflag.Modes) boardFlags {
	return boardFlags{
		width:  md.AddInt("width", 640, "width of the frame"),
		height: md.AddInt("height", 480, "height of the frame"),
		prefs:  md.AddString("prefs", "", "preferences to apply (eg. \"display.grace::20; display.spiMode::true\")"),
		log:    md.AddBool("log", false, "echo log to stdout"),
	}
}

func newBoard(f boardFlags) (*board, error) {
	if *f.log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	prefs.PushCommandLineStack(*f.prefs)

	b := &board{
		mem: psram.NewPSRAM(),
	}

	var err error
	b.pat, err = demo.WritePattern(b.mem, *f.width, *f.height)
	if err != nil {
		return nil, err
	}

	b.dec = framedecode.NewDecoder(b.mem)
	b.cap = capture.NewCapture(*f.width, *f.height)
	b.ser = dvi.NewSerialiser(b.cap)

	b.drv, err = display.NewDriver(b.mem, b.dec, b.ser, tmds.NewEncoder())
	if err != nil {
		return nil, err
	}

	// any unused command line preferences are probably mistakes
	if s := prefs.PopCommandLineStack(); s != "" {
		return nil, curated.Errorf("unknown preferences: %s", s)
	}

	if err := b.drv.Init(); err != nil {
		return nil, err
	}

	return b, nil
}

// animator is implemented by demo.Bouncer and demo.Script
type animator interface {
	Frame(n int) error
}

// attach an animator to the board. the returned function releases any
// resources used by the animator
func (b *board) animate(ctx context.Context, script string) (func(), error) {
	var anim animator
	release := func() {}

	if script != "" {
		s, err := demo.NewScript(ctx, b.drv, b.pat, script, "")
		if err != nil {
			return nil, err
		}
		anim = s
		release = s.Close
	} else {
		bnc, err := demo.NewBouncer(b.drv, b.pat)
		if err != nil {
			return nil, err
		}
		anim = bnc
	}

	b.onFrame(func(d display.Diags) {
		if err := anim.Frame(d.Frame); err != nil {
			logger.Log(logger.Allow, "demo", err)
		}
	})

	return release, nil
}

// callbacks called by the diagnostics callback of the driver, in the order
// they were added. must be added before the driver is run
func (b *board) onFrame(f func(display.Diags)) {
	b.callbacks = append(b.callbacks, f)
	b.drv.SetDiagsCallback(func(d display.Diags) {
		for _, f := range b.callbacks {
			f(d)
		}
	})
}
