package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqlx "github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	hadronia "github.com/spinthyia/hadronia_go/pkg"
)

var (
	logger         Logger
	configFilename string
	flagValues     hadronia.Configuration
)

func init() {
	logger = newDefaultLogger()
}

var rootCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Reconstruct hadronia in LUND events and write their kinematics to HDF5",
	Long: `Reads a LUND file event by event, reconstructs every combination of
final-state particles matching the criteria pattern, applies the parent
relationship filter and the kinematic cuts, and writes one row per
surviving candidate.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalysis,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFilename, "config", "c", "", "configuration file path (JSON or TOML)")
	flags.StringVarP(&flagValues.FileIn, "input", "i", "", "LUND input file")
	flags.StringVarP(&flagValues.FileOut, "output", "o", "", "HDF5 output file")
	flags.StringVar(&flagValues.Criteria, "criteria", "", `hadronium pattern, e.g. "(211) + (-211)"`)
	flags.Var(&modeFlag{&flagValues.Mode}, "mode", "analysis mode: single_hadron or dihadron")
	flags.StringVar(&flagValues.Acceptance, "acceptance", "", "acceptance profile")
	flags.IntVarP(&flagValues.MaxEvents, "max-events", "n", 0, "maximum number of events to read")
	flags.IntVar(&flagValues.Skip, "skip", 0, "number of events to skip")
	flags.IntVarP(&flagValues.Verbosity, "verbosity", "v", 0, "verbosity level")
	flags.IntVar(&flagValues.NumWorkers, "workers", 0, "number of workers")
	flags.BoolVar(&flagValues.Parallel, "parallel", false, "process events in parallel")
	flags.StringVar(&flagValues.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
}

// modeFlag lets cobra parse a hadronia.Mode.
type modeFlag struct {
	mode *hadronia.Mode
}

func (m *modeFlag) String() string {
	if m.mode == nil {
		return ""
	}
	return m.mode.String()
}

func (m *modeFlag) Set(s string) error {
	return m.mode.UnmarshalText([]byte(s))
}

func (m *modeFlag) Type() string {
	return "mode"
}

// applyFlags overrides the file configuration with the flags set on the
// command line.
func applyFlags(cmd *cobra.Command, config *hadronia.Configuration) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		config.FileIn = flagValues.FileIn
	}
	if flags.Changed("output") {
		config.FileOut = flagValues.FileOut
	}
	if flags.Changed("criteria") {
		config.Criteria = flagValues.Criteria
	}
	if flags.Changed("mode") {
		config.Mode = flagValues.Mode
	}
	if flags.Changed("acceptance") {
		config.Acceptance = flagValues.Acceptance
	}
	if flags.Changed("max-events") {
		config.MaxEvents = flagValues.MaxEvents
	}
	if flags.Changed("skip") {
		config.Skip = flagValues.Skip
	}
	if flags.Changed("verbosity") {
		config.Verbosity = flagValues.Verbosity
	}
	if flags.Changed("workers") {
		config.NumWorkers = flagValues.NumWorkers
	}
	if flags.Changed("parallel") {
		config.Parallel = flagValues.Parallel
	}
	if flags.Changed("metrics-addr") {
		config.MetricsAddr = flagValues.MetricsAddr
	}
}

func loadConfiguration(cmd *cobra.Command) (hadronia.Configuration, error) {
	configuration := hadronia.DefaultConfiguration()
	if configFilename != "" {
		var err error
		configuration, err = hadronia.LoadConfiguration(configFilename)
		if err != nil {
			return configuration, fmt.Errorf("error reading configuration file: %w", err)
		}
	}
	applyFlags(cmd, &configuration)
	if configuration.FileIn == "" {
		return configuration, errors.New("no input file given")
	}
	return configuration, configuration.Validate()
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	configuration, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	hadronia.SetLogger(logger)

	verbosityLevel := configuration.Verbosity
	if verbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	var dbConn *sqlx.DB
	if !configuration.NoDB {
		dbConn, err = hadronia.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer dbConn.Close()
	}

	acceptance, err := hadronia.ResolveAcceptance(dbConn, configuration.Acceptance, verbosityLevel)
	if err != nil {
		return err
	}

	analysis, err := hadronia.NewAnalysis(configuration, acceptance)
	if err != nil {
		return err
	}

	if configuration.MetricsAddr != "" {
		server := serveMetrics(configuration.MetricsAddr, analysis.Stats)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			stopMetrics(ctx, server)
		}()
	}

	reader, file, err := hadronia.OpenLund(configuration.FileIn)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := hadronia.NewWriter(configuration.FileOut, hadronia.NewRunInfo(configuration), configuration.CompressionLevel)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runErr := analysis.Run(ctx, NewFileReader(reader, configuration), writer)
	closeErr := writer.Close()
	if verbosityLevel > 0 {
		message := fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds())
		logger.Info(message, "main")
	}
	return errors.Join(runErr, closeErr)
}

func serveMetrics(addr string, stats *hadronia.RunStats) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(stats.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			message := fmt.Errorf("metrics server: %w", err)
			logger.Error(message.Error())
		}
	}()
	return server
}

func stopMetrics(ctx context.Context, server *http.Server) {
	if err := server.Shutdown(ctx); err != nil {
		message := fmt.Errorf("metrics server shutdown: %w", err)
		logger.Error(message.Error())
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
