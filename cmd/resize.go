package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mpix/internal/engine"
	"mpix/internal/tui"
)

var (
	resizeMegapixels float64
	resizeQuality    int
	resizeWorkers    int
	resizeRecurse    bool
	resizeOutputDir  string
	resizeQuiet      bool
)

var resizeCmd = &cobra.Command{
	Use:   "resize [flags] <folder>",
	Short: "Resize every image in a folder to the megapixel target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engine.Config{
			Source:     args[0],
			Recurse:    resizeRecurse,
			Megapixels: resizeMegapixels,
			Quality:    resizeQuality,
			Workers:    resizeWorkers,
			OutputDir:  resizeOutputDir,
		}

		events := make(chan engine.Event, 64)
		eng, err := engine.New(cfg, events)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		uiDone := make(chan struct{})
		if resizeQuiet {
			// Headless: SIGINT cancels cooperatively, events become log lines.
			var stop context.CancelFunc
			ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			go func() {
				defer close(uiDone)
				logEvents(events)
			}()
		} else {
			model := tui.NewModel(events, cancel)
			program := tea.NewProgram(model)
			go func() {
				defer close(uiDone)
				_, _ = program.Run()
			}()
		}

		summary, runErr := eng.Run(ctx)
		close(events)
		<-uiDone
		if runErr != nil {
			return runErr
		}

		for _, res := range eng.Failures() {
			fmt.Fprintf(os.Stderr, "failed: %v\n", res.Err)
		}

		rows := []tui.SummaryRow{
			{Label: "Total files", Value: fmt.Sprintf("%d", summary.Total)},
			{Label: "Succeeded", Value: fmt.Sprintf("%d", summary.Succeeded)},
			{Label: "Failed", Value: fmt.Sprintf("%d", summary.Failed)},
			{Label: "Cancelled", Value: fmt.Sprintf("%d", summary.Cancelled)},
			{Label: "Elapsed", Value: summary.Elapsed.Round(time.Millisecond).String()},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))

		outDir := cfg.OutputDir
		if outDir == "" {
			outDir = filepath.Join(cfg.Source, engine.OutputDirName)
		}
		if summary.Succeeded > 0 {
			if abs, absErr := filepath.Abs(outDir); absErr == nil {
				outDir = abs
			}
			fmt.Fprintf(os.Stdout, "Resized files written to: %s\n", outDir)
		}

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
		}
		return nil
	},
}

func logEvents(events <-chan engine.Event) {
	for ev := range events {
		switch ev.Kind {
		case engine.EventRunStarted:
			fmt.Fprintf(os.Stdout, "processing %d files on %d workers\n", ev.Total, ev.Workers)
		case engine.EventJobFinished:
			switch ev.Status {
			case engine.StatusSucceeded:
				fmt.Fprintf(os.Stdout, "ok   %s\n", ev.File)
			case engine.StatusFailed:
				fmt.Fprintf(os.Stdout, "fail %s: %v\n", ev.File, ev.Err)
			case engine.StatusCancelled:
				fmt.Fprintf(os.Stdout, "skip %s (cancelled)\n", ev.File)
			}
		}
	}
}

func init() {
	resizeCmd.Flags().Float64Var(&resizeMegapixels, "mp", engine.DefaultMegapixels, "target output size in megapixels (2-64)")
	resizeCmd.Flags().IntVarP(&resizeQuality, "quality", "q", engine.DefaultQuality, "JPEG quality (1-12)")
	resizeCmd.Flags().IntVarP(&resizeWorkers, "workers", "w", engine.DefaultWorkers, "number of parallel workers")
	resizeCmd.Flags().BoolVarP(&resizeRecurse, "recurse", "r", true, "process subfolders and mirror their structure")
	resizeCmd.Flags().StringVarP(&resizeOutputDir, "output", "o", "", "destination folder (default <folder>/output)")
	resizeCmd.Flags().BoolVar(&resizeQuiet, "quiet", false, "no progress UI, print one line per file")

	rootCmd.AddCommand(resizeCmd)
}
