package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mcp3208",
		Short: "Read an MCP3208 12-bit ADC over SPI",
		Long: `mcp3208 reads raw conversions from a Microchip MCP3208 analog-to-digital
converter on a Linux spidev bus, or from a built-in simulator with --simulate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default ./mcp3208.yaml or $MCP3208_CONFIG)")
	pf.StringVarP(&flags.port, "port", "p", "", "SPI port, e.g. /dev/spidev0.0 (default first available)")
	pf.Int64Var(&flags.speedHz, "speed", 0, "SPI clock in Hz (default 1000000)")
	pf.IntVar(&flags.spiMode, "spi-mode", 0, "SPI mode 0-3")
	pf.StringVarP(&flags.mode, "mode", "m", "", "conversion mode: single or diff")
	pf.IntVar(&flags.retries, "retries", 0, "retries after a corrupt response")
	pf.BoolVar(&flags.simulate, "simulate", false, "use the built-in simulated device")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newReadCmd(flags))
	rootCmd.AddCommand(newDumpCmd(flags))
	rootCmd.AddCommand(newPollCmd(flags))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mcp3208 %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
