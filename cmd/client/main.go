// Package main runs the terminal client: the login and welcome screens
// backed by a local JSON storage file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/atinyakov/GophLogin/internal/client/shell"
	"github.com/atinyakov/GophLogin/internal/logger"
	"github.com/atinyakov/GophLogin/internal/repository"
	"github.com/atinyakov/GophLogin/internal/service"
	"github.com/atinyakov/GophLogin/internal/storage"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		storageFile string
		prefix      string
		logLevel    string
		tz          string
		showVer     bool
	)

	flag.StringVar(&storageFile, "storage", "storage.json", "path to the local storage file")
	flag.StringVar(&prefix, "prefix", storage.DefaultPrefix, "storage key prefix")
	flag.StringVar(&logLevel, "l", "error", "log level")
	flag.StringVar(&tz, "tz", "", "time zone for displayed times (default: local)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("GophLogin Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	l := logger.New()
	if err := l.Init(logLevel); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Log.Sync() }()

	loc := time.Local
	if tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			log.Fatal(err)
		}
	}

	st := storage.New(repository.NewFileStore(storageFile), l.Log, storage.WithPrefix(prefix))
	auth := service.NewAuthService(st, nil, service.WithLogger(l.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := &shell.Shell{
		Auth:     auth,
		Storage:  st,
		Location: loc,
		In:       bufio.NewReader(os.Stdin),
		Out:      os.Stdout,
	}
	if err := sh.Run(ctx); err != nil {
		l.Log.Error("shell stopped", zap.Error(err))
		os.Exit(1)
	}
}
