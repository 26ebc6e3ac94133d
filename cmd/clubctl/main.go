// Command clubctl manages the CyberClub site from the terminal.
package main

import (
	"os"

	"github.com/yigit/cyberclub/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("clubctl failed")
		os.Exit(1)
	}
}
