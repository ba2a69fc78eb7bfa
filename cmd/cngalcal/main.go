// Command cngalcal builds a release calendar from the CnGal upcoming games listing
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cngalcal/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("cngalcal failed")
		stop()
		os.Exit(1)
	}
}
