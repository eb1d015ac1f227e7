package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prashil107/attendance/api"
	"github.com/prashil107/attendance/cache"
	"github.com/prashil107/attendance/collector"
	"github.com/prashil107/attendance/config"
	"github.com/prashil107/attendance/model"
	"github.com/prashil107/attendance/submission"
	"github.com/prashil107/attendance/tui"
	"github.com/prashil107/attendance/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/rs/zerolog"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const flashLimit = 10000

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("attendance", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config.file", "", "path to the YAML configuration file")
	envFile := flags.String("env.file", ".env", "dotenv file loaded before the configuration, ignored when missing")
	debug := flags.Bool("debug", false, "enable debug logging")
	printVersion := flags.Bool("version", false, "print version information and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: attendance [flags] <serve|tui|submit> [command flags]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *printVersion {
		fmt.Fprintln(stdout, version.Print("attendance"))
		return exitOK
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return exitUsage
	}
	command, commandArgs := flags.Arg(0), flags.Args()[1:]

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logOutput := io.Writer(stderr)
	if command == "tui" {
		// the terminal belongs to the form
		logOutput = io.Discard
		if *debug {
			f, err := tea.LogToFile("attendance-debug.log", "attendance")
			if err != nil {
				fmt.Fprintf(stderr, "error opening debug log: %s\n", err)
				return exitFailure
			}
			defer f.Close()
			logOutput = f
		}
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: logOutput, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	log.Debug().Str("version", version.Version).Str("revision", version.Revision).Str("command", command).Msg("starting attendance")

	sc := config.New(*configFile, *envFile)
	err := sc.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		fmt.Fprintf(stderr, "error loading config: %s\n", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "submit":
		handler := submission.New(log, api.New(sc.Get().Endpoint), nil)
		return runSubmit(ctx, handler, commandArgs, stdout, stderr)
	case "tui":
		handler := submission.New(log, api.New(sc.Get().Endpoint), nil)
		err = tui.Run(ctx, handler)
	case "serve":
		err = serve(ctx, log, sc)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		flags.Usage()
		return exitUsage
	}

	if err != nil {
		log.Error().Err(err).Msg("exiting with error")
		return exitFailure
	}
	return exitOK
}

func runSubmit(ctx context.Context, handler *submission.Handler, args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("submit", flag.ContinueOnError)
	flags.SetOutput(stderr)
	studentID := flags.String("student-id", "", "student identifier")
	studentName := flags.String("student-name", "", "student name")
	actionName := flags.String("action", string(model.DefaultAction()), "check-in or check-out")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	action, err := model.ParseAction(*actionName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	values := &submission.Values{
		StudentID:   *studentID,
		StudentName: *studentName,
		Action:      action,
	}

	result := handler.Submit(ctx, values, submission.DisplayFunc(func(message model.DisplayMessage) {
		if message.IsError {
			fmt.Fprintln(stderr, message.Text)
		} else {
			fmt.Fprintln(stdout, message.Text)
		}
	}))

	if result.Outcome != submission.OutcomeSuccess {
		return exitFailure
	}
	return exitOK
}

func serve(ctx context.Context, log zerolog.Logger, sc *config.SafeConfig) error {
	// setup config reload
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	reloadRequest := make(chan chan error)
	go watchReload(ctx, log, sc, hup, reloadRequest)

	metrics := collector.NewSubmissions(prometheus.DefaultRegisterer)
	collector.RegisterBuildInfo(prometheus.DefaultRegisterer)

	submitter := api.NewDynamic(func() config.Endpoint { return sc.Get().Endpoint })
	handler := submission.New(log, submitter, metrics)

	c := sc.Get()
	mux := newMux(ctx, log, sc, handler, reloadRequest)

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("metrics_path", c.MetricsPath).Str("form_path", c.FormPath).Str("listen", c.Listen).Msg("starting http server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// watchReload reloads sc on SIGHUP or on a request from the reload
// endpoint until ctx is done. API callers receive the load error.
func watchReload(ctx context.Context, log zerolog.Logger, sc *config.SafeConfig, hup <-chan os.Signal, reloadRequest <-chan chan error) {
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Debug().Msg("config reload triggered by SIGHUP")
			err = sc.LoadConfig()
		case reloadResult := <-reloadRequest:
			log.Debug().Msg("config reload triggered by API")
			err = sc.LoadConfig()
			reloadResult <- err
		}
		if err != nil {
			log.Error().Err(err).Msg("error reloading config")
		} else {
			log.Info().Str("endpoint", sc.Get().Endpoint.URL).Msg("reloaded config file")
		}
	}
}

func newMux(ctx context.Context, log zerolog.Logger, sc *config.SafeConfig, handler web.Submitter, reloadRequest chan<- chan error) *http.ServeMux {
	c := sc.Get()
	mux := http.NewServeMux()
	mux.Handle(c.MetricsPath, promhttp.Handler())
	mux.HandleFunc("/-/reload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "only POST requests allowed", http.StatusMethodNotAllowed)
			return
		}
		reloadResult := make(chan error, 1)
		select {
		case reloadRequest <- reloadResult:
		case <-ctx.Done():
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		err := <-reloadResult
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to reload config: %s", err), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/-/healthy", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "OK")
	})
	web.New(log, handler, cache.New(flashLimit), c.FormPath).Register(mux)
	return mux
}
