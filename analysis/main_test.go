package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	hadronia "github.com/spinthyia/hadronia_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := NewLogger(&stdout, &stderr)

	l.Info("Reading event 3", "fileReader")
	l.Error("bad event")

	line := stdout.String()
	assert.Regexp(t, `^\[\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\] \[fileReader\] Reading event 3\n$`, line)
	assert.Contains(t, stderr.String(), `"msg":"bad event"`)
	assert.Contains(t, stderr.String(), `"level":"ERROR"`)

	stdout.Reset()
	l.InfoLog.Warn("slow event", "module", "analysis", "event", 12)
	assert.Regexp(t, `^\[[^\]]+\] \[analysis\] WARN slow event event=12\n$`, stdout.String())

	stdout.Reset()
	l.InfoLog.Info("no module")
	assert.Regexp(t, `^\[[^\]]+\] \[-\] no module\n$`, stdout.String())
}

// countingSource yields n numbered events.
type countingSource struct {
	next, n int
}

func (c *countingSource) Next() (hadronia.Event, error) {
	if c.next >= c.n {
		return hadronia.Event{}, io.EOF
	}
	c.next++
	return hadronia.Event{Number: c.next - 1}, nil
}

func readAll(t *testing.T, source hadronia.EventSource) []int {
	t.Helper()
	var numbers []int
	for {
		event, err := source.Next()
		if err == io.EOF {
			return numbers
		}
		require.NoError(t, err)
		numbers = append(numbers, event.Number)
	}
}

func TestFileReader(t *testing.T) {
	config := hadronia.DefaultConfiguration()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, readAll(t, NewFileReader(&countingSource{n: 5}, config)))

	config.Skip = 2
	assert.Equal(t, []int{2, 3, 4}, readAll(t, NewFileReader(&countingSource{n: 5}, config)))

	// skipped events count towards max_events
	config.MaxEvents = 4
	assert.Equal(t, []int{2, 3}, readAll(t, NewFileReader(&countingSource{n: 5}, config)))
}

func TestModeFlag(t *testing.T) {
	var mode hadronia.Mode
	flag := &modeFlag{&mode}
	require.NoError(t, flag.Set("dihadron"))
	assert.Equal(t, hadronia.DiHadron, mode)
	assert.Equal(t, "dihadron", flag.String())
	assert.Error(t, flag.Set("triple"))
	assert.Equal(t, "", (&modeFlag{}).String())
}

func TestLoadConfigurationNeedsInput(t *testing.T) {
	configFilename = ""
	_, err := loadConfiguration(&cobra.Command{})
	assert.EqualError(t, err, "no input file given")
}

func TestLoadConfigurationFlagsOverrideFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		`file_in = "from_file.lund"`,
		`criteria = "(211)"`,
		`max_events = 50`,
		`verbosity = 2`,
	}, "\n")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	defer func() { configFilename = "" }()

	require.NoError(t, rootCmd.ParseFlags([]string{
		"--config", filename,
		"--input", "from_flag.lund",
		"--criteria", "(211) + (-211)",
		"--mode", "dihadron",
		"-n", "10",
	}))
	config, err := loadConfiguration(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from_flag.lund", config.FileIn)
	assert.Equal(t, "(211) + (-211)", config.Criteria)
	assert.Equal(t, hadronia.DiHadron, config.Mode)
	assert.Equal(t, 10, config.MaxEvents)
	assert.Equal(t, 2, config.Verbosity)
	assert.Equal(t, "hadronia.h5", config.FileOut)
}

func TestStopMetricsLogsShutdownError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	saved := logger
	logger = NewLogger(&stdout, &stderr)
	defer func() { logger = saved }()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})}
	go server.Serve(listener)
	go http.Get("http://" + listener.Addr().String() + "/metrics")
	<-entered

	// the request in flight keeps the server busy past the deadline
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stopMetrics(ctx, server)
	assert.Contains(t, stderr.String(), "metrics server shutdown: context canceled")
}
