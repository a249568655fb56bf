package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/protocol"
)

func newReadCmd(flags *globalFlags) *cobra.Command {
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "read <channel>",
		Short: "Read one channel",
		Long: `Read performs a single conversion on the given channel (0-7) and prints
the raw 12-bit value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid channel %q: %w", args[0], err)
			}
			ch, err := protocol.NewChannel(n)
			if err != nil {
				return err
			}

			// The last exchange, as sent and received on the bus.
			var last adc.Conversion
			s, err := openSession(cmd, flags, adc.WithObserver(adc.ObserverFunc(func(c adc.Conversion) {
				last = c
			})))
			if err != nil {
				return err
			}
			defer s.Close()

			sample, err := s.reader.Read(cmd.Context(), ch)
			out := cmd.OutOrStdout()
			if showFrames && last.Attempt > 0 {
				fmt.Fprintf(out, "tx %s rx %s\n", last.Command, last.Response)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, sample)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFrames, "frames", false, "also print the command and response words exchanged")
	return cmd
}
