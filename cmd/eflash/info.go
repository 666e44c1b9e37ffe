package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	swfcore "github.com/user-none/eflash/api"
	"github.com/user-none/eflash/content"
	"github.com/user-none/eflash/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info <movie>",
	Short: "Print movie header information",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func runInfo(cmd *cobra.Command, args []string) {
	data, name, err := content.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	player, err := engine.NewFactory().Create(data, swfcore.Config{SampleRate: 48000})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()

	info := player.Info()
	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Size:       %d bytes\n", len(data))
	fmt.Printf("Version:    SWF %d\n", info.Version)
	fmt.Printf("Stage:      %dx%d\n", info.Width, info.Height)
	fmt.Printf("Frame rate: %.2f fps\n", info.FrameRate)

	if _, ok := player.(swfcore.SaveStater); ok {
		fmt.Printf("Save state: supported\n")
	}
}
