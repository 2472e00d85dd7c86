package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// setCmd tunes the filter to a single wavelength.
var setCmd = &cobra.Command{
	Use:   "set <wavelength-nm>",
	Short: "Tune the filter to a wavelength",
	Long: `Tune the filter to the given wavelength in nanometers.

The filter tunes in whole nanometers plus 0.2 nm fine steps; requests
off that grid are rounded to the nearest achievable wavelength.

Example usage:
  otfctl set 1550.4
  otfctl --port /dev/ttyUSB1 set 1572`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parsing wavelength %q: %w", args[0], err)
		}

		dev, err := openDevice(newLogger())
		if err != nil {
			return err
		}
		defer dev.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout())
		defer cancel()

		actual, err := dev.SetChannel(ctx, wl)
		if err != nil {
			return err
		}

		fmt.Printf("filter tuned to %.1f nm\n", actual)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
