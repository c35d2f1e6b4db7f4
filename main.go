package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/framecloak/framecloak/cmd"
	"github.com/framecloak/framecloak/internal/api"
	"github.com/framecloak/framecloak/internal/config"
	"github.com/framecloak/framecloak/internal/events"
	"github.com/framecloak/framecloak/internal/logging"
	"github.com/framecloak/framecloak/internal/metrics"
	"github.com/framecloak/framecloak/internal/pipeline"
	"github.com/framecloak/framecloak/internal/presets"
	"github.com/framecloak/framecloak/internal/video"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`

	// Preset settings
	PresetsFile string `help:"Preset definitions file" default:"presets.toml" toml:"presets.file" env:"PRESETS_FILE"`

	// Video settings
	OutputCodec string `help:"Output codec passed to ffmpeg (lossy codecs break exact round-trips)" default:"ffv1" toml:"video.output_codec" env:"VIDEO_OUTPUT_CODEC"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingPipeline string `help:"Pipeline logging level" default:"info" toml:"logging.pipeline" env:"LOGGING_PIPELINE"`
	LoggingVideo    string `help:"Video I/O logging level" default:"info" toml:"logging.video" env:"LOGGING_VIDEO"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingPresets  string `help:"Preset store logging level" default:"info" toml:"logging.presets" env:"LOGGING_PRESETS"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"pipeline": opts.LoggingPipeline,
				"video":    opts.LoggingVideo,
				"api":      opts.LoggingAPI,
				"presets":  opts.LoggingPresets,
			},
		})
		logger := logging.GetLogger("main")

		eventBus := events.New()
		runMetrics := metrics.New()

		// Bridge log entries onto the bus for the SSE log stream.
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		presetStore := presets.NewStore()
		if loadErr := presetStore.LoadFrom(opts.PresetsFile); loadErr != nil {
			logger.Warn("Failed to load presets, starting with none", "file", opts.PresetsFile, "error", loadErr)
		}

		presetWatcher := config.NewConfigWatcher(
			opts.PresetsFile,
			presets.LoadFile,
			logging.GetLogger("presets"),
		)
		presetWatcher.OnReload(func(file presets.File) {
			presetStore.Replace(file.Presets)
			eventBus.Publish(events.PresetsReloadedEvent{
				Count:     len(file.Presets),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			logger.Info("Presets reloaded", "count", len(file.Presets))
		})

		manager := pipeline.NewManager(pipeline.ManagerOptions{
			Bus:      eventBus,
			Metrics:  runMetrics,
			OpenSink: video.NewSinkOpener(opts.OutputCodec),
		})

		server := api.NewServer(&api.Options{
			AuthUsername:   opts.AuthUsername,
			AuthPassword:   opts.AuthPassword,
			RunService:     manager,
			Presets:        presetStore,
			EventBus:       eventBus,
			MetricsHandler: runMetrics.Handler(),
		})

		hooks.OnStart(func() {
			if startErr := presetWatcher.Start(); startErr != nil {
				logger.Warn("Failed to start preset watcher, hot-reload disabled", "error", startErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			// In-flight runs stop at their next frame boundary, leaving
			// truncated but well-formed outputs.
			manager.CancelAll()

			if stopErr := presetWatcher.Stop(); stopErr != nil {
				logger.Error("Error stopping preset watcher", "error", stopErr)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateRunCmd())
	cli.Root().AddCommand(cmd.CreateProbeCmd())

	cli.Run()
}
