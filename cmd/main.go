// FILE: cmd/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lixenwraith/flags"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// AppFlags are the flags of the demo server.
type AppFlags struct {
	Server struct {
		Host string `flag:"host" help:"address to listen on"`
		Port int32  `flag:"port" help:"port to listen on"`
	} `flag:"server"`

	Database struct {
		URL         string `flag:"url" help:"database connection string"`
		MaxConns    int32  `flag:"max_conns" help:"connection pool size"`
		IdleTimeout string `flag:"idle_timeout" help:"idle connection timeout, e.g. 30s"`
	} `flag:"database"`

	Watch   bool `flag:"watch" help:"reload --flagfile when it changes"`
	Help    bool `flag:"help" help:"show help"`
	Version bool `flag:"version" help:"show version"`
}

type dbSettings struct {
	URL         string        `flag:"url"`
	MaxConns    int           `flag:"max_conns"`
	IdleTimeout time.Duration `flag:"idle_timeout"`
}

func main() {
	app := &AppFlags{}
	app.Server.Host = "localhost"
	app.Server.Port = 8080
	app.Database.MaxConns = 10
	app.Database.IdleTimeout = "30s"

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	reg, _ := flags.NewBuilder().
		WithStruct("", app).
		WithUsage("flagdemo [flags]\n\nA demo server configured from flags, FLAGS_ variables and option files.").
		WithVersion("flagdemo 1.0.0").
		WithFlagfileDiscovery(flags.DefaultDiscoveryOptions("flagdemo")).
		WithLogger(logger).
		WithReporter(func(r *flags.Registry) {
			switch {
			case app.Help:
				printHelp(r)
				r.Exit(0)
			case app.Version:
				fmt.Println(r.Version())
				r.Exit(0)
			}
		}).
		WithValidator(func(r *flags.Registry) error {
			if _, err := time.ParseDuration(app.Database.IdleTimeout); err != nil {
				return fmt.Errorf("--database.idle_timeout: %w", err)
			}
			return nil
		}).
		MustBuild()

	if err := flags.RegisterValidator(reg, &app.Server.Port, func(name string, port int32) bool {
		return port > 0 && port < 65536
	}); err != nil {
		logger.Fatal("validator registration failed", zap.Error(err))
	}

	var db dbSettings
	if err := reg.Scan("database", &db); err != nil {
		logger.Fatal("failed to decode database flags", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("host", app.Server.Host),
		zap.Int32("port", app.Server.Port),
		zap.Int("max_conns", db.MaxConns),
		zap.Duration("idle_timeout", db.IdleTimeout))

	var changes <-chan string
	if file, _ := reg.Get("flagfile"); app.Watch && file != "" {
		path, _, _ := strings.Cut(file, ",")
		if changes, err = reg.WatchFlagfile(path); err != nil {
			logger.Fatal("cannot watch flagfile", zap.Error(err))
		}
		defer reg.StopWatching()
		logger.Info("watching flagfile", zap.String("path", path))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			logger.Info("shutting down")
			return
		case name, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			handleChange(logger, reg, name)
		}
	}
}

func handleChange(logger *zap.Logger, reg *flags.Registry, name string) {
	switch name {
	case flags.NotifyFileDeleted:
		logger.Warn("flagfile was deleted")
	case flags.NotifyReloadError:
		logger.Warn("flagfile reload failed, previous values kept")
	default:
		value, _ := reg.Get(name)
		logger.Info("flag changed", zap.String("flag", name), zap.String("value", value))
		if name == "server.port" {
			logger.Info("port changed, restart required")
		}
	}
}

// printHelp lists the flags grouped by file, wrapped to the terminal width.
func printHelp(r *flags.Registry) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w
	}

	name := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	fmt.Println(r.Usage())
	file := ""
	for _, info := range r.All() {
		if info.Filename != file {
			file = info.Filename
			fmt.Printf("\n  Flags from %s:\n", file)
		}
		name.Printf("    --%s\n", info.Name)
		for _, line := range wrap(info.Description, width-6) {
			fmt.Printf("      %s\n", line)
		}
		dim.Printf("      type: %s  default: %q\n", info.Type, info.DefaultValue)
	}
}

func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
