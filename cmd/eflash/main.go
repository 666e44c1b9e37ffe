// eflash plays Flash movies through the built-in preview engine.
//
// Usage:
//
//	eflash play [movie]      - Play a movie (file picker when omitted)
//	eflash info <movie>      - Print movie header information
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eflash",
	Short: "Flash movie player",
	Long: `eflash plays Flash movies in a window.

Movies can be plain .swf files or archives (zip, 7z, rar, gz)
containing one.

Examples:
  eflash play game.swf
  eflash play archive.zip
  eflash info game.swf`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a yaml config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(infoCmd)
}
