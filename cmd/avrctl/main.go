// Command avrctl is an interactive controller for Pioneer AV receivers.
//
// It speaks the receiver's line-oriented control protocol over TCP and
// offers a small shell for querying and driving power, volume, mute,
// input source and speaker sound mode.
//
// Usage:
//
//	avrctl [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-host string       Receiver address (overrides config)
//	-port int          Receiver control port (default 23)
//	-discover          Find the receiver via mDNS instead of -host
//	-capture string    Write a CBOR protocol capture to this file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Connect directly
//	avrctl -host 192.168.1.40
//
//	# Use a config file with a static source map
//	avrctl -config /etc/avrctl/living-room.yaml
//
//	# Discover the receiver and capture the conversation
//	avrctl -discover -capture session.avrlog -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avr-protocol/avr-go/pkg/avr"
	"github.com/avr-protocol/avr-go/pkg/config"
	"github.com/avr-protocol/avr-go/pkg/discovery"
	avrlog "github.com/avr-protocol/avr-go/pkg/log"
)

type cliFlags struct {
	ConfigFile string
	Host       string
	Port       int
	Discover   bool
	Capture    string
	LogLevel   string
}

var flags cliFlags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.Host, "host", "", "Receiver address (overrides config)")
	flag.IntVar(&flags.Port, "port", 0, "Receiver control port (overrides config)")
	flag.BoolVar(&flags.Discover, "discover", false, "Find the receiver via mDNS instead of -host")
	flag.StringVar(&flags.Capture, "capture", "", "Write a CBOR protocol capture to this file")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	setupLogging(flags.LogLevel)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flags.Discover {
		if err := discoverReceiver(ctx, &cfg); err != nil {
			slog.Error("discovery failed", "error", err)
			os.Exit(1)
		}
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLogger, err := setupCapture(cfg)
	if err != nil {
		slog.Error("capture setup failed", "error", err)
		os.Exit(1)
	}
	defer closeLogger()

	opts := cfg.DeviceOptions()
	opts.Logger = logger
	device := avr.New(opts)

	slog.Info("connecting", "name", cfg.Name, "host", cfg.Host, "port", cfg.Port)
	if err := device.Refresh(ctx); err != nil {
		// The shell still opens: the receiver may be off the network
		// temporarily and "watch" will pick it up when it returns.
		slog.Warn("initial refresh failed", "error", err)
	}

	shell, err := newShell(device, cfg)
	if err != nil {
		slog.Error("shell setup failed", "error", err)
		os.Exit(1)
	}
	defer shell.Close()

	// Ctrl-C at the prompt is handled by readline; the signal handler
	// covers SIGTERM and a second interrupt during a slow operation.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	shell.Run(ctx, cancel)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if flags.Host != "" {
		cfg.Host = flags.Host
	}
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	if flags.Capture != "" {
		cfg.LogFile = flags.Capture
	}
	return cfg, nil
}

// discoverReceiver browses for the first advertised receiver and fills
// the host and port into cfg.
func discoverReceiver(ctx context.Context, cfg *config.Config) error {
	slog.Info("browsing for receivers", "service", discovery.DefaultServiceType)

	browser := discovery.NewBrowser(discovery.DefaultBrowserConfig())
	svc, err := browser.FindFirst(ctx)
	if err != nil {
		return err
	}

	cfg.Host = svc.Addresses[0]
	cfg.Port = int(svc.Port)
	if cfg.Name == config.Default().Name && svc.InstanceName != "" {
		cfg.Name = svc.InstanceName
	}
	slog.Info("receiver found", "instance", svc.InstanceName,
		"host", cfg.Host, "port", cfg.Port)
	return nil
}

// setupCapture assembles the protocol event logger: a CBOR file capture
// when configured, plus a console mirror at debug level.
func setupCapture(cfg config.Config) (avrlog.Logger, func(), error) {
	loggers := []avrlog.Logger{}
	cleanup := func() {}

	if cfg.LogFile != "" {
		fileLogger, err := avrlog.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		loggers = append(loggers, fileLogger)
		cleanup = func() {
			if err := fileLogger.Close(); err != nil {
				slog.Warn("capture close failed", "error", err)
			}
		}
	}

	if flags.LogLevel == "debug" {
		loggers = append(loggers, avrlog.NewSlogAdapter(slog.Default()))
	}

	switch len(loggers) {
	case 0:
		return avrlog.NoopLogger{}, cleanup, nil
	case 1:
		return loggers[0], cleanup, nil
	default:
		return avrlog.NewMultiLogger(loggers...), cleanup, nil
	}
}

func setupLogging(level string) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", level)
		os.Exit(2)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}
