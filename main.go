package main

import (
	"os"

	"github.com/flatplay/flatplay/cmd"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.IsInterrupted(err) {
			logging.UserError("Interrupted")
		} else {
			logging.UserError("%v", err)
		}
		os.Exit(errors.GetExitCode(err))
	}
}
