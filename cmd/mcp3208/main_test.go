package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/protocol"
)

// run executes the root command in an empty working directory so that no
// stray mcp3208.yaml is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("MCP3208_CONFIG", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mcp3208 dev")
}

func TestReadCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "channel 0",
			args: []string{"read", "0", "--simulate"},
			want: "0",
		},
		{
			name: "channel 3",
			args: []string{"read", "3", "--simulate"},
			want: "1755",
		},
		{
			name: "channel 7 full scale",
			args: []string{"read", "7", "--simulate"},
			want: "4095",
		},
		{
			name: "differential pair",
			args: []string{"read", "1", "--simulate", "--mode", "diff"},
			want: "585",
		},
		{
			name: "differential clamps at zero",
			args: []string{"read", "0", "--simulate", "-m", "diff"},
			want: "0",
		},
		{
			name:    "channel out of range",
			args:    []string{"read", "8", "--simulate"},
			wantErr: true,
			errMsg:  "channel 8 out of range",
		},
		{
			name:    "not a number",
			args:    []string{"read", "x", "--simulate"},
			wantErr: true,
			errMsg:  `invalid channel "x"`,
		},
		{
			name:    "bad mode",
			args:    []string{"read", "0", "--simulate", "--mode", "triple"},
			wantErr: true,
			errMsg:  "adc.mode",
		},
		{
			name:    "missing channel",
			args:    []string{"read", "--simulate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestReadCommandFrames(t *testing.T) {
	out, err := run(t, "read", "0", "--simulate", "--frames")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "tx 0xC0000000 rx 0x00000000", lines[0])
	assert.Equal(t, "0", lines[1])
}

func TestReadCommandFramesFullScale(t *testing.T) {
	out, err := run(t, "read", "7", "--simulate", "--frames", "--mode", "single")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "tx 0xF8000000 rx 0x01FFFFFC", lines[0])
	assert.Equal(t, "4095", lines[1])
}

func TestReadCommandFramesDifferential(t *testing.T) {
	out, err := run(t, "read", "1", "--simulate", "--frames", "-m", "diff")
	require.NoError(t, err)

	resp, err := protocol.BuildResponse(585)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "tx 0x88000000 rx "+resp.String(), lines[0])
}

func TestPollCommandRejectsEmptyMetricsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp3208.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulate: true\nmetrics:\n  path: \"\"\n"), 0o644))

	_, err := run(t, "poll", "--config", path, "--count", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.path")
}

func TestDumpCommandJSON(t *testing.T) {
	out, err := run(t, "dump", "--simulate", "-f", "json")
	require.NoError(t, err)

	var got []struct {
		Channel int    `json:"channel"`
		Mode    string `json:"mode"`
		Raw     int    `json:"raw"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, protocol.NumChannels)

	for i, rd := range got {
		assert.Equal(t, i, rd.Channel)
		assert.Equal(t, "single", rd.Mode)
		assert.Equal(t, int(simulatedInput(protocol.SingleEnded, protocol.Channel(i))), rd.Raw)
	}
}

func TestDumpCommandYAML(t *testing.T) {
	out, err := run(t, "dump", "--simulate", "--format", "yaml", "--mode", "diff")
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, protocol.NumChannels)
	assert.Equal(t, "diff", got[0]["mode"])
	assert.Equal(t, 585, got[1]["raw"])
}

func TestDumpCommandTable(t *testing.T) {
	out, err := run(t, "dump", "--simulate")
	require.NoError(t, err)

	assert.Contains(t, out, "CHANNEL")
	for _, ch := range protocol.Channels() {
		assert.Contains(t, out, ch.String())
	}
	assert.Contains(t, out, "4095")
}

func TestDumpCommandBadFormat(t *testing.T) {
	_, err := run(t, "dump", "--simulate", "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestPollCommand(t *testing.T) {
	out, err := run(t, "poll", "--simulate", "--count", "2", "--interval", "1ms", "--no-metrics")
	require.NoError(t, err)

	var readings []adc.Reading
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var rd adc.Reading
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rd))
		readings = append(readings, rd)
	}
	require.NoError(t, sc.Err())
	require.Len(t, readings, 2*protocol.NumChannels)

	for i, rd := range readings {
		ch := protocol.Channel(i % protocol.NumChannels)
		assert.Equal(t, ch, rd.Channel)
		assert.Equal(t, protocol.SingleEnded, rd.Mode)
		assert.Equal(t, simulatedInput(protocol.SingleEnded, ch), rd.Raw)
	}
}

func TestPollCommandRejectsZeroInterval(t *testing.T) {
	_, err := run(t, "poll", "--simulate", "--count", "1", "--interval", "0s", "--no-metrics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval must be positive")
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp3208.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulate: true\nadc:\n  mode: diff\n"), 0o644))

	out, err := run(t, "read", "1", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "585", strings.TrimSpace(out))

	out, err = run(t, "read", "1", "--config", path, "--mode", "single")
	require.NoError(t, err)
	assert.Equal(t, "585", strings.TrimSpace(out))

	out, err = run(t, "read", "2", "--config", path, "--mode", "single")
	require.NoError(t, err)
	assert.Equal(t, "1170", strings.TrimSpace(out))
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "read", "0", "--config", "/nonexistent/mcp3208.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestSimulatedInput(t *testing.T) {
	assert.Equal(t, protocol.Sample(0), simulatedInput(protocol.SingleEnded, protocol.Channel0))
	assert.Equal(t, protocol.MaxSample, simulatedInput(protocol.SingleEnded, protocol.Channel7))

	for _, ch := range protocol.Channels() {
		diff := simulatedInput(protocol.PseudoDifferential, ch)
		if ch%2 == 0 {
			assert.Equal(t, protocol.Sample(0), diff, "%s", ch)
		} else {
			assert.Equal(t, protocol.Sample(585), diff, "%s", ch)
		}
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), bar(0, 10))
	assert.Equal(t, strings.Repeat("█", 10), bar(protocol.MaxSample, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), bar(2048, 10))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir on Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
