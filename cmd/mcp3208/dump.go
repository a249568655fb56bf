package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/protocol"
)

func newDumpCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Read every channel once",
		Long: `Dump converts channels 0 through 7 in order and prints the raw values
as a table, JSON or YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q: use table, json or yaml", format)
			}

			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			readings, err := s.reader.ReadAll(cmd.Context())
			if err != nil {
				return err
			}

			return writeReadings(cmd.OutOrStdout(), format, readings)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml")
	return cmd
}

func writeReadings(w io.Writer, format string, readings []adc.Reading) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(readings)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(readings)
	default:
		_, err := fmt.Fprintln(w, renderTable(readings))
		return err
	}
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

func renderTable(readings []adc.Reading) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %-7s %6s  %s", "CHANNEL", "MODE", "RAW", "LEVEL")))
	for _, rd := range readings {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-8s %-7s %6d  %s", rd.Channel, rd.Mode, rd.Raw, bar(rd.Raw, 20))
	}
	return frameStyle.Render(b.String())
}

// bar draws s as a proportion of full scale.
func bar(s protocol.Sample, width int) string {
	filled := int(s) * width / int(protocol.MaxSample)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
