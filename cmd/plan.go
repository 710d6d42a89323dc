package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mpix/internal/engine"
	"mpix/internal/tui"
	"mpix/pkg/imgutil"
)

var (
	planRecurse   bool
	planOutputDir string
)

var planCmd = &cobra.Command{
	Use:   "plan <folder>",
	Short: "List the files a resize run would process, without decoding anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engine.Config{
			Source:     args[0],
			Recurse:    planRecurse,
			Megapixels: engine.DefaultMegapixels,
			Quality:    engine.DefaultQuality,
			OutputDir:  planOutputDir,
		}

		jobs, err := engine.Enumerate(cfg)
		if err != nil {
			return err
		}

		outName := planOutputDir
		if outName == "" {
			outName = engine.OutputDirName
		}

		raws := 0
		for _, job := range jobs {
			style := planStandardStyle
			if job.Kind == imgutil.KindRaw {
				style = planRawStyle
				raws++
			}
			fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
				style.Render(fmt.Sprintf("%-8s", job.Kind)),
				planFileStyle.Render(job.RelPath),
				planDimStyle.Render("->"),
				planDimStyle.Render(filepath.Join(outName, job.OutputRel)),
			)
		}

		fmt.Fprintf(os.Stdout, "\n%d files (%d raw)\n", len(jobs), raws)
		return nil
	},
}

var (
	planFileStyle     = lipgloss.NewStyle().Foreground(tui.ColorInk)
	planStandardStyle = lipgloss.NewStyle().Foreground(tui.ColorAccent)
	planRawStyle      = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	planDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	planCmd.Flags().BoolVarP(&planRecurse, "recurse", "r", true, "include subfolders")
	planCmd.Flags().StringVarP(&planOutputDir, "output", "o", "", "destination folder (default <folder>/output)")

	rootCmd.AddCommand(planCmd)
}
