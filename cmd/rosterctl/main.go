// Command rosterctl drives the activity roster view from a terminal.
//
//	rosterctl [-api URL] list
//	rosterctl [-api URL] signup -activity NAME -email EMAIL
//	rosterctl [-api URL] unregister -activity NAME -email EMAIL
//
// The exit status is 1 when the roster cannot be loaded or an action fails.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkordes/activity-roster/internal/apiclient"
	"github.com/pkordes/activity-roster/internal/view"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("rosterctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	apiURL := global.String("api", envOr("API_BASE_URL", "http://localhost:8000"), "activities API base URL")
	timeout := global.Duration("timeout", 0, "per-request timeout (0 means none)")
	logLevel := global.String("log-level", "warn", "log level written to stderr")
	global.Usage = func() {
		fmt.Fprintln(stderr, "usage: rosterctl [flags] list | signup | unregister")
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(stderr, "rosterctl: %v\n", err)
		return 2
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	api, err := apiclient.New(*apiURL, apiclient.WithTimeout(*timeout))
	if err != nil {
		fmt.Fprintf(stderr, "rosterctl: %v\n", err)
		return 2
	}
	v := view.New(api, view.NewStore(true), view.Options{
		Logger:    logger,
		AfterFunc: func(time.Duration, func()) {},
	})
	surface := newTextSurface(stdout)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "list":
		if err := v.Refresh(ctx, surface); err != nil {
			return 1
		}
		return 0
	case "signup", "unregister":
		activity, email, err := parseAction(cmd, cmdArgs, stderr)
		if err != nil {
			return 2
		}
		act := v.Signup
		if cmd == "unregister" {
			act = v.Unregister
		}
		if out := act(ctx, surface, activity, email); out.Kind != view.Success {
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "rosterctl: unknown command %q\n", cmd)
		global.Usage()
		return 2
	}
}

func parseAction(name string, args []string, stderr io.Writer) (activity, email string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&activity, "activity", "", "activity name")
	fs.StringVar(&email, "email", "", "participant email")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if activity == "" {
		fmt.Fprintf(stderr, "rosterctl %s: -activity is required\n", name)
		return "", "", errors.New("missing -activity")
	}
	return activity, email, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
