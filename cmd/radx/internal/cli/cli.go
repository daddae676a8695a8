package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/codeninja55/go-radx/cmd/radx/internal/build"
	"github.com/codeninja55/go-radx/cmd/radx/internal/config"
	"github.com/codeninja55/go-radx/cmd/radx/internal/dicom/commands"
)

const (
	appName        = "radx"
	appDescription = "DICOM anonymization CLI for go-radx"
)

// CLI represents the root command structure.
type CLI struct {
	config.GlobalConfig

	Anonymize commands.AnonymizeCmd `cmd:"" name:"anonymize" help:"De-identify a DICOM file"`
	Config    ConfigCmd             `cmd:"" name:"config" help:"Anonymization policy file utilities"`
}

// ConfigCmd groups the config subcommands.
type ConfigCmd struct {
	Create commands.ConfigCreateCmd `cmd:"" name:"create" help:"Write a policy file built from flags"`
}

// Run executes the radx CLI with the provided build info.
func Run(version, commit, date string) error {
	build.SetBuildInfo(version, commit, date)

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
			"commit":  commit,
			"date":    date,
		},
	)

	logger := setupLogger(&cli.GlobalConfig)

	logger.Debug("radx CLI starting",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	err := ctx.Run(&cli.GlobalConfig)
	if err != nil {
		logger.Error("command failed", "error", err)
		return err
	}

	return nil
}

// setupLogger configures the global logger based on config.
func setupLogger(cfg *config.GlobalConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	switch cfg.LogLevel {
	case "trace":
		logger.SetLevel(log.DebugLevel) // charmbracelet/log has no trace level
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	case "fatal":
		logger.SetLevel(log.FatalLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if !cfg.Pretty {
		logger.SetFormatter(log.JSONFormatter)
	}

	log.SetDefault(logger)

	return logger
}

// ParseArgs is a convenience function for testing. It parses arguments and
// returns the CLI struct and Kong context.
func ParseArgs(args []string, version, commit, date string) (*CLI, *kong.Context, error) {
	build.SetBuildInfo(version, commit, date)

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.Vars{
			"version": version,
			"commit":  commit,
			"date":    date,
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parser: %w", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return cli, ctx, nil
}
