// Command tunestore administers the tuning metadata store: schema installation,
// connectivity checks and inspection of stored tuning configuration.
package main

import (
	"context"
	_ "embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// embeddedConfig is the configuration used when --config is not given.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
