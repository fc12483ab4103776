package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/docopt/docopt-go"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/client"
	"github.com/BuzzLyutic/todo-list/internal/tui"
	"github.com/BuzzLyutic/todo-list/internal/view"
)

const version = "0.1.0"

const usage = `Todo list in the terminal.

Usage:
    tui [--api=<url>] [--interval=<duration>] [--date-layout=<layout>] [--log=<file>]
    tui -h | --help
    tui --version

Options:
    -h --help               Show this screen.
    --version               Show version.
    --api=<url>             API root [default: http://localhost:8080/api].
    --interval=<duration>   How often the list is reloaded [default: 30s].
    --date-layout=<layout>  Go time layout for task dates [default: 02.01.2006].
    --log=<file>            Write logs to this file. Without it logs are dropped.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}

	apiURL, _ := opts.String("--api")
	layout, _ := opts.String("--date-layout")
	intervalStr, _ := opts.String("--interval")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad --interval %q: %v\n", intervalStr, err)
		os.Exit(2)
	}
	if layout == "" {
		layout = view.DefaultDateLayout
	}

	// Логи в терминал нельзя: он занят интерфейсом
	logger := zap.NewNop()
	if path, _ := opts.String("--log"); path != "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
		logger, err = cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	api := client.New(apiURL, &http.Client{})
	logger.Info("Starting terminal client", zap.String("api", apiURL), zap.Duration("interval", interval))

	if err := tui.Run(context.Background(), api, tui.Options{
		Interval:   interval,
		DateLayout: layout,
		Logger:     logger,
	}); err != nil {
		logger.Error("Terminal client failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
