package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/audit"
	"clipo/clipoterm/internal/config"
	"clipo/clipoterm/internal/logging"
	"clipo/clipoterm/internal/security"
	"clipo/clipoterm/internal/storage"
	"clipo/clipoterm/internal/validationerrors"
	"clipo/clipoterm/internal/views"
)

var version = "dev"

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath     string
	dataDir        string
	logFile        string
	logLevel       string
	logFormat      string
	defaultContext string
	messagesFile   string
}

func (o *options) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Sources:     cli.EnvVars("CLIPO_CONFIG"),
			Destination: &o.configPath,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory holding accounts and audit logs",
			Sources:     cli.EnvVars("CLIPO_DATA_DIR"),
			Destination: &o.dataDir,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Write logs to this file (logs are discarded when empty)",
			Sources:     cli.EnvVars("CLIPO_LOG_FILE"),
			Destination: &o.logFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level [debug|info|warn|error]",
			Sources:     cli.EnvVars("CLIPO_LOG_LEVEL"),
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format [json|console]",
			Sources:     cli.EnvVars("CLIPO_LOG_FORMAT"),
			Destination: &o.logFormat,
		},
		&cli.StringFlag{
			Name:        "default-context",
			Usage:       "Message context used outside any scoped form",
			Sources:     cli.EnvVars("CLIPO_DEFAULT_CONTEXT"),
			Destination: &o.defaultContext,
		},
		&cli.StringFlag{
			Name:        "messages",
			Usage:       "TOML or YAML message table merged over the built-in messages",
			Sources:     cli.EnvVars("CLIPO_MESSAGES"),
			Destination: &o.messagesFile,
		},
	}
}

// load reads the config file and applies the flags that were set
func (o *options) load(c *cli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadAppConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	if c.IsSet("data-dir") {
		cfg.Storage.DataDir = o.dataDir
	}
	if c.IsSet("log-file") {
		cfg.Log.File = o.logFile
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if c.IsSet("default-context") {
		cfg.Validation.DefaultContext = o.defaultContext
	}
	if c.IsSet("messages") {
		cfg.Validation.MessagesFile = o.messagesFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildModule(cfg *config.AppConfig, logger *slog.Logger) (*validationerrors.Module, error) {
	messages, err := cfg.LoadMessages()
	if err != nil {
		return nil, err
	}
	moduleCfg, err := cfg.ToModuleConfig(messages)
	if err != nil {
		return nil, err
	}
	return validationerrors.NewModule(moduleCfg, validationerrors.WithLogger(logger)), nil
}

func run(ctx context.Context, args []string) error {
	var opts options

	app := &cli.Command{
		Name:    "clipoterm",
		Usage:   "Terminal account client with contextual validation messages",
		Version: version,
		Flags:   opts.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return runUI(ctx, &opts, c)
		},
		Commands: []*cli.Command{
			cmdMessages(&opts),
			cmdAccounts(&opts),
		},
	}

	return app.Run(ctx, args)
}

func runUI(ctx context.Context, opts *options, c *cli.Command) error {
	cfg, err := opts.load(c)
	if err != nil {
		return err
	}

	closeLog, err := logging.Configure(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := logging.Default().With(slog.String("version", version))
	ctx = logging.With(ctx, logger)
	logger.Info("starting clipoterm",
		slog.String("data_dir", cfg.Storage.DataDir),
		slog.String("default_context", cfg.Validation.DefaultContext))

	module, err := buildModule(cfg, logger)
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.Storage.DataDir)
	if err != nil {
		return err
	}

	auditor, err := audit.NewAccountAuditor(filepath.Join(cfg.Storage.DataDir, "audit"))
	if err != nil {
		return err
	}
	defer func() {
		if err := auditor.Close(); err != nil {
			logger.Error("failed to close audit log", slog.Any("error", err))
		}
	}()

	service := account.NewService(store, account.WithRecorder(auditor))

	sessions := security.NewSessionManager(security.DefaultSessionConfig())
	defer sessions.Shutdown()

	app, err := views.NewAppModel(ctx, module, service, sessions)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize application")
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return goerr.Wrap(err, "failed to run application")
	}

	logger.Info("clipoterm stopped")
	return nil
}

// cmdMessages prints the message each known code resolves to in a context
func cmdMessages(opts *options) *cli.Command {
	var msgContext string

	return &cli.Command{
		Name:  "messages",
		Usage: "Print the resolved validation messages for a context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "context",
				Usage:       "Message context, for example LOGIN or SIGNUP (default context when empty)",
				Destination: &msgContext,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := opts.load(c)
			if err != nil {
				return err
			}

			module, err := buildModule(cfg, logging.Default())
			if err != nil {
				return err
			}

			if msgContext == "" {
				msgContext = module.Config().DefaultContext
			}

			resolver := module.Resolver()
			for _, code := range resolver.Codes(msgContext) {
				msg, _ := resolver.Resolve(code, nil, msgContext)
				fmt.Fprintf(c.Root().Writer, "%-22s %s\n", code, msg)
			}
			return nil
		},
	}
}
