package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user-none/eflash/engine"
	"github.com/user-none/eflash/standalone"
)

var playCmd = &cobra.Command{
	Use:   "play [movie]",
	Short: "Play a movie",
	Long: `Play a movie in a window. When no path is given a file picker opens.

Controls:
  F3   - Restart movie
  F5   - Save state
  F6   - Hold to rewind
  F7   - Load state
  F10  - Pause/resume
  F11  - Toggle fullscreen`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	if err := standalone.Run(engine.NewFactory(), path, flagConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
