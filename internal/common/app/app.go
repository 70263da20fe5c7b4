package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/common/qppcontext"
)

// CreateContextWithShutdown returns a context that is cancelled on the first SIGINT or SIGTERM.
func CreateContextWithShutdown(log *logrus.Entry) *qppcontext.Context {
	return withShutdownSignals(log, syscall.SIGINT, syscall.SIGTERM)
}

func withShutdownSignals(log *logrus.Entry, signals ...os.Signal) *qppcontext.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		defer signal.Stop(c)
		select {
		case sig := <-c:
			log.Infof("received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return qppcontext.New(ctx, log)
}
