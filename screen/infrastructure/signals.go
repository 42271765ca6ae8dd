package infrastructure

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// SignalEvent names a backend-level interrupt the event loop must react
// to: a resize or suspend request feeding the mode machine.
type SignalEvent int

const (
	EventResize SignalEvent = iota
	EventSuspend
	EventContinue
)

// WatchSignals registers for SIGWINCH (terminal resize) and SIGTSTP/SIGCONT
// (job-control suspend/resume) and forwards them as SignalEvents on ch.
// The returned stop function cancels the subscription.
func WatchSignals(ch chan<- SignalEvent) (stop func()) {
	sigs := make(chan os.Signal, 8)
	signal.Notify(sigs, unix.SIGWINCH, unix.SIGTSTP, unix.SIGCONT)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				switch sig {
				case unix.SIGWINCH:
					ch <- EventResize
				case unix.SIGTSTP:
					ch <- EventSuspend
				case unix.SIGCONT:
					ch <- EventContinue
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Suspend stops this process with SIGSTOP semantics via SIGTSTP, the
// correct way for a process to put itself into job-control stop state —
// the suspend-request handling behind `^Z` in normal mode.
func Suspend() error {
	return unix.Kill(os.Getpid(), unix.SIGTSTP)
}
