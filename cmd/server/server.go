// Command server runs the pro-rata order book's TCP ingress, logging
// every execution to stdout as it happens.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"prorata/internal/book"
	"prorata/internal/engine"
	"prorata/internal/ingress"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	sink := book.NewLineSink(os.Stdout)
	eng := engine.New(sink)
	srv := ingress.New("0.0.0.0", 9001, eng)

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("ingress server exited")
	}
}
