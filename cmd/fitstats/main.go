// fitstats is a terminal client for the fitness backend. The session is read
// from a TOML file at start and written back on exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/2beens/fittrack/internal/account"
	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/analytics"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/workouts"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	backendURL := flag.String("backend", envOr("FITTRACK_BACKEND_URL", "http://localhost:5000"), "fitness backend base URL")
	sessionPath := flag.String("session", defaultSessionPath(), "session file path")
	jsonOutput := flag.Bool("json", false, "print JSON instead of text")
	verbose := flag.Bool("v", false, "verbose logging")
	timeout := flag.Duration("timeout", 10*time.Second, "backend request timeout")
	flag.Usage = func() {
		_, _ = fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	os.Exit(run(*backendURL, *sessionPath, *jsonOutput, *timeout, flag.Args()))
}

func run(backendURL, sessionPath string, jsonOutput bool, timeout time.Duration, args []string) int {
	sessions := session.NewFileStore(sessionPath)
	if err := sessions.Open(); err != nil {
		log.Errorf("open session: %s", err)
		return 1
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Errorf("save session: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backendClient := backend.NewClient(backendURL, backend.NewHTTPClient(timeout), nil)
	// one process per command, the cache only saves repeated lists within it
	workoutStore := workouts.NewStore(backendClient, 1, time.Minute, nil)

	a := &app{
		out:        os.Stdout,
		jsonOutput: jsonOutput,
		sessions:   sessions,
		account:    account.NewService(backendClient, sessions, workoutStore, activity.NopRecorder{}, nil),
		dashboard: dashboard.NewService(
			workoutStore,
			analytics.NewAnalyzer(analytics.SystemClock),
			activity.NopRecorder{},
			nil,
		),
	}

	if err := a.run(ctx, args); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n%s", err, usage)
			return 2
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "fittrack", "session.toml")
	}
	return ".fittrack-session.toml"
}
