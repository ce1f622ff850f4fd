package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/raiden-network/raiden-services/cmd/cli"
	_ "github.com/raiden-network/raiden-services/pkg/logger"
)

func main() {
	start := time.Now()
	log.Trace().Msgf("Top of execution - %s", start.UTC())
	cli.Execute()
	log.Trace().Msgf("Execution finished - %s", time.Since(start))
}
