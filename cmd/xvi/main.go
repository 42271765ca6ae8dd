package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/clipboard"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/screen"
	"github.com/xvi-go/xvi/screen/infrastructure"
)

const (
	exitOK       = 0
	exitStartup  = 1
	exitTerminal = 2
	ctrlZ        = 0x1a
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStartup
	}

	backend := infrastructure.NewANSIBackend(os.Stdout, int(os.Stdout.Fd()))
	rows, cols := terminalSize(backend)

	if err := backend.EnterRaw(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitTerminal
	}
	defer backend.ExitRaw()

	scr := screen.New(rows, cols, backend)

	var filename string
	if len(opts.Files) > 0 {
		filename = opts.Files[0]
	}
	buf := buffer.New(filename)

	var clip *clipboard.Mirror
	if os.Getenv("XVI_CLIPBOARD") == "osc52" {
		clip = clipboard.NewMirror(clipboard.NewOSC52Provider(os.Stdout, 200*time.Millisecond), 50)
	}

	ed := NewEditor(buf, scr, backend, 1000, clip)
	ed.ex.Files = opts.Files
	ed.ex.OnMessage = ed.setStatus

	if err := startup(ed, opts); err != nil {
		backend.ExitRaw()
		fmt.Fprintln(os.Stderr, "xvi:", err)
		return exitStartup
	}

	ed.redrawAll()
	code := mainLoop(ed, backend)
	return code
}

// terminalSize resolves the starting screen size: LINES/COLUMNS override
// the backend's own query when set, matching the original's
// use of those two environment variables ahead of an ioctl query.
func terminalSize(backend *infrastructure.ANSIBackend) (rows, cols int) {
	rows, cols, _ = backend.Size()
	if v := os.Getenv("LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rows = n
		}
	}
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cols = n
		}
	}
	return rows, cols
}

// startup performs the original xvi_startup sequence: load
// the first file (if any), run XVINIT, apply "-s" options, load the tag
// files named by the "tags" parameter, and finally resolve
// "-t"/"+n"/"+/pat".
func startup(ed *Editor, opts *startupOptions) error {
	if opts.Tag == "" && ed.buf.Filename != "" {
		if err := ed.ex.Execute("e! " + ed.buf.Filename); err != nil {
			return err
		}
	}

	if v := os.Getenv("SHELL"); v != "" {
		ed.params.Set("shell", v)
	}

	for _, cmd := range splitXVInit(os.Getenv("XVINIT")) {
		if cmd == "" {
			continue
		}
		if err := ed.ex.Execute(cmd); err != nil && ed.ex.OnMessage != nil {
			ed.ex.OnMessage(err.Error())
		}
	}

	for _, f := range opts.SetOpts {
		if err := ed.ex.Execute("set " + f); err != nil {
			return err
		}
	}

	tagsVal, _ := ed.params.Get("tags")
	if err := ed.tagc.Load(tagsVal.L, ed.params.Int("taglength")); err != nil {
		return err
	}

	switch {
	case opts.Tag != "":
		if err := ed.ex.Execute("tag " + opts.Tag); err != nil {
			return err
		}
	case opts.Pattern != "":
		if err := ed.ex.Execute("/" + opts.Pattern); err != nil {
			return err
		}
	case opts.HaveLine:
		if opts.Line == 0 {
			return ed.ex.Execute("$")
		}
		return ed.ex.Execute(strconv.Itoa(opts.Line))
	}
	return nil
}

// mainLoop runs the event loop until Exit, translating raw
// input bytes, signals and the keymap timeout into mode.Events.
func mainLoop(ed *Editor, backend *infrastructure.ANSIBackend) int {
	input := make(chan byte, 256)
	readErr := make(chan error, 1)
	go readBytes(os.Stdin, input, readErr)

	sigs := make(chan infrastructure.SignalEvent, 8)
	stopSigs := infrastructure.WatchSignals(sigs)
	defer stopSigs()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		if len(ed.stuffed) > 0 {
			b := ed.stuffed[0]
			ed.stuffed = ed.stuffed[1:]
			if !ed.handle(mode.Event{Kind: mode.Char, Byte: b}, backend) {
				return exitOK
			}
			updateTimer(ed, &timer, &timerC)
			continue
		}

		select {
		case b := <-input:
			ev := mode.Event{Kind: mode.Char, Byte: b}
			if b == ctrlZ {
				ev = mode.Event{Kind: mode.SuspendRequest}
			} else if b == 0x03 {
				ev = mode.Event{Kind: mode.Breakin}
			}
			if !ed.handle(ev, backend) {
				return exitOK
			}

		case <-readErr:
			ed.handle(mode.Event{Kind: mode.Disconnected}, backend)
			return exitOK

		case sig := <-sigs:
			switch sig {
			case infrastructure.EventResize:
				rows, cols := terminalSize(backend)
				if !ed.handle(mode.Event{Kind: mode.Resize, DRows: rows - ed.scr.Rows(), DCols: cols - ed.scr.Cols()}, backend) {
					return exitOK
				}
			case infrastructure.EventSuspend:
				if !ed.handle(mode.Event{Kind: mode.SuspendRequest}, backend) {
					return exitOK
				}
			case infrastructure.EventContinue:
				ed.handle(mode.Event{Kind: mode.Refresh}, backend)
			}

		case <-timerC:
			if !ed.handle(mode.Event{Kind: mode.Timeout}, backend) {
				return exitOK
			}
		}

		updateTimer(ed, &timer, &timerC)
	}
}

// updateTimer (re)arms the keymap/preserve poll timer per the most recent
// Response.TimeoutMS, used after every dispatched event including those
// drained from the stuff queue.
func updateTimer(ed *Editor, timer **time.Timer, timerC *<-chan time.Time) {
	if ed.lastResp.TimeoutMS <= 0 {
		*timerC = nil
		return
	}
	if *timer != nil {
		(*timer).Stop()
	}
	*timer = time.NewTimer(time.Duration(ed.lastResp.TimeoutMS) * time.Millisecond)
	*timerC = (*timer).C
}

func readBytes(r io.Reader, out chan<- byte, errCh chan<- error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			errCh <- err
			return
		}
		out <- b
	}
}

// handle feeds one event through the mode machine and carries out
// whatever the Response asks for: redraw, resync the window/keymap focus,
// mirror the unnamed register, suspend the process, or stop the loop.
// It returns false once the session should exit.
func (ed *Editor) handle(ev mode.Event, backend *infrastructure.ANSIBackend) bool {
	resp, err := ed.machine.HandleEvent(ev)
	ed.lastResp = resp
	if err != nil {
		ed.setStatus(err.Error())
	}

	if resp.Suspend {
		backend.ExitRaw()
		infrastructure.Suspend()
		backend.EnterRaw()
		ed.scr.ClearAll()
	}

	if resp.Exit {
		return false
	}

	ed.syncWindowFocus()
	ed.syncUserMap()
	ed.syncClipboard()
	ed.redrawAll()
	return true
}
