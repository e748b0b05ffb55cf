// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptSignals defines the signals that are handled to do a clean shutdown.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InterruptContext returns a context derived from parent that is cancelled on
// the first SIGINT or SIGTERM. A second signal exits the process right away.
// The returned stop function releases the signal handler.
func InterruptContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s). Shutting down...", sig)
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s). Already shutting down, exiting now", sig)
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(interruptChannel)
		close(done)
		cancel()
	}
}
