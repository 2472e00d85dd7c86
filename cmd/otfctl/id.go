package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// idCmd reports the filter's firmware identification.
var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Report the filter's firmware version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice(newLogger())
		if err != nil {
			return err
		}
		defer dev.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout())
		defer cancel()

		version, err := dev.Identify(ctx)
		if err != nil {
			return err
		}

		fmt.Println(version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}
