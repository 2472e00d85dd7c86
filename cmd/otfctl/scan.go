package main

import (
	"context"
	"fmt"
	"time"

	"github.com/optelix/otf"
	"github.com/spf13/cobra"
)

var (
	scanStart int
	scanEnd   int
	scanStay  time.Duration
	scanSpan  int
)

// scanCmd runs one sweep across a wavelength window.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep the filter across a wavelength window",
	Long: `Program a sweep window into the filter and run one sweep,
printing the wavelength the filter reports at each step.

Example usage:
  otfctl scan --start 1520 --end 1580 --stay 500ms --span 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		dev, err := openDevice(log)
		if err != nil {
			return err
		}
		defer dev.Close()

		// The sweep duration dominates the command timeout; budget
		// for every step plus the usual exchange margin.
		span := scanSpan
		if span < 1 {
			span = 1
		}
		steps := (scanEnd-scanStart)/span + 1
		budget := time.Duration(steps)*scanStay + cmdTimeout()

		ctx, cancel := context.WithTimeout(cmd.Context(), budget)
		defer cancel()

		params := otf.ScanParams{
			StartNM: scanStart,
			EndNM:   scanEnd,
			Stay:    scanStay,
			Span:    scanSpan,
		}
		prev, err := dev.Scan(ctx, params, func(wl int) {
			fmt.Printf("\rscanning %d nm", wl)
		})
		fmt.Println()
		if err != nil {
			return err
		}

		log.Debug().
			Int("prev_start_nm", prev.StartNM).
			Int("prev_end_nm", prev.EndNM).
			Dur("prev_stay", prev.Stay).
			Msg("replaced sweep window")

		fmt.Println("sweep complete")
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanStart, "start", otf.MinWavelength, "sweep start wavelength (nm)")
	scanCmd.Flags().IntVar(&scanEnd, "end", otf.MaxWavelength, "sweep end wavelength (nm)")
	scanCmd.Flags().DurationVar(&scanStay, "stay", 500*time.Millisecond, "dwell time per step (0.1s to 30s)")
	scanCmd.Flags().IntVar(&scanSpan, "span", 1, "step width (1 to 30)")
	rootCmd.AddCommand(scanCmd)
}
