package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mpix",
	Short: "mpix - batch-resize image folders to a megapixel target",
	Long:  "mpix converts a folder of images (standard formats and camera RAW) into uniform JPEGs resized to a target megapixel count, processing files on a configurable number of parallel workers.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
