package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	hadronia "github.com/spinthyia/hadronia_go/pkg"
)

var (
	configFilename string
	inspectEvents  int
	inspectAll     bool
	criteria       string
	mode           string
	acceptance     string
)

var rootCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the reconstructed candidates of the first events of a LUND file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFilename, "config", "c", "", "configuration file path (JSON or TOML)")
	flags.IntVarP(&inspectEvents, "events", "n", 10, "number of events to inspect")
	flags.BoolVar(&inspectAll, "all", false, "also print events without candidates")
	flags.StringVar(&criteria, "criteria", "", "hadronium pattern")
	flags.StringVar(&mode, "mode", "", "analysis mode: single_hadron or dihadron")
	flags.StringVar(&acceptance, "acceptance", "", "built-in acceptance profile")
}

// firstEvents stops a source after n events.
type firstEvents struct {
	source hadronia.EventSource
	n      int
}

func (f *firstEvents) Next() (hadronia.Event, error) {
	if f.n <= 0 {
		return hadronia.Event{}, io.EOF
	}
	f.n--
	return f.source.Next()
}

// recorder remembers every event it sees, with or without records.
type recorder struct {
	source hadronia.EventSource
	events []hadronia.Event
}

func (r *recorder) Next() (hadronia.Event, error) {
	event, err := r.source.Next()
	if err == nil {
		r.events = append(r.events, event)
	}
	return event, err
}

func configuration(cmd *cobra.Command, filename string) (hadronia.Configuration, error) {
	config := hadronia.DefaultConfiguration()
	if configFilename != "" {
		var err error
		if config, err = hadronia.LoadConfiguration(configFilename); err != nil {
			return config, err
		}
	}
	config.FileIn = filename
	config.Parallel = false
	config.NumWorkers = 1
	flags := cmd.Flags()
	if flags.Changed("criteria") {
		config.Criteria = criteria
	}
	if flags.Changed("mode") {
		if err := config.Mode.UnmarshalText([]byte(mode)); err != nil {
			return config, err
		}
	}
	if flags.Changed("acceptance") {
		config.Acceptance = acceptance
	}
	return config, config.Validate()
}

func runInspect(cmd *cobra.Command, args []string) error {
	config, err := configuration(cmd, args[0])
	if err != nil {
		return err
	}
	profile, err := hadronia.BuiltinAcceptance(config.Acceptance)
	if err != nil {
		return err
	}
	analysis, err := hadronia.NewAnalysis(config, profile)
	if err != nil {
		return err
	}

	reader, file, err := hadronia.OpenLund(config.FileIn)
	if err != nil {
		return err
	}
	defer file.Close()

	source := &recorder{source: &firstEvents{source: reader, n: inspectEvents}}
	sink := &hadronia.MemorySink{}
	if err := analysis.Run(cmd.Context(), source, sink); err != nil {
		return err
	}

	cmd.Printf("Pattern %v, mode %v, acceptance %s\n", analysis.Pattern(), analysis.Mode(), config.Acceptance)
	byEvent := make(map[int][]hadronia.Record)
	for _, r := range sink.Records {
		byEvent[r.EventNumber] = append(byEvent[r.EventNumber], r)
	}
	for _, event := range source.events {
		records := byEvent[event.Number]
		if len(records) == 0 && !inspectAll {
			continue
		}
		cmd.Printf("Event %d: %d particles, %d candidates\n", event.Number, len(event.Particles), len(records))
		for i, r := range records {
			cmd.Printf("  candidate %d\n%s\n", i, r.Set)
			cmd.Println("   ", formatObservables(r, analysis.Mode()))
		}
	}
	return nil
}

func formatObservables(r hadronia.Record, mode hadronia.Mode) string {
	variables := mode.Variables()
	parts := make([]string, len(variables))
	for i, name := range variables {
		parts[i] = fmt.Sprintf("%s=%.4g", name, r.Lookup(name))
	}
	return strings.Join(parts, " ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
