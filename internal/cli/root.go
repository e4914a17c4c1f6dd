package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/snaptodo/internal/auth"
	"github.com/idilsaglam/snaptodo/internal/config"
	"github.com/idilsaglam/snaptodo/internal/logger"
	"github.com/idilsaglam/snaptodo/internal/model"
	"github.com/idilsaglam/snaptodo/internal/store/sqlitestore"
	"github.com/idilsaglam/snaptodo/internal/ui"
	"github.com/idilsaglam/snaptodo/internal/viewstate"
)

type App struct {
	EnvFile string
	DBPath  string
	Theme   string
	Color   bool
	NoColor bool

	cfg    *config.Config
	logOut io.Closer

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "To-do list with photo attachments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive screen
  todo

  # Scriptable commands
  todo add "Buy milk"
  todo ls
  todo rm 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.setup(cmd.Name() == "serve")
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&app.EnvFile, "env-file", ".env", "Optional dotenv file read before the environment")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the sqlite database (default: $TODO_DB_PATH or the user config dir)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Output theme (classic|neon|mono)")
	cmd.PersistentFlags().BoolVar(&app.Color, "color", false, "Force colored output")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newAuthCmd(app))

	return cmd
}

// setup loads configuration, applies flag overrides and starts logging.
// The terminal belongs to the command's output, so only serve logs to stderr.
func (app *App) setup(logToStderr bool) error {
	cfg, err := config.Load(app.EnvFile)
	if err != nil {
		return err
	}
	if app.DBPath != "" {
		cfg.DBPath = app.DBPath
	}
	if app.Theme != "" {
		cfg.Theme = app.Theme
	}
	app.cfg = cfg

	ui.SetColorForcing(app.Color, app.NoColor)
	ui.SetTheme(cfg.Theme)

	target := cfg.Log.File
	if logToStderr {
		target = logger.Stderr
	}
	closer, err := logger.Init(cfg.Log.Level, target)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	app.logOut = closer
	log.Debug().Str("db", cfg.DBPath).Str("theme", cfg.Theme).Msg("configuration loaded")
	return nil
}

func (app *App) close() {
	if app.logOut != nil {
		_ = app.logOut.Close()
		app.logOut = nil
	}
}

func (app *App) credentials() auth.Credentials {
	return auth.Credentials{Dir: app.cfg.ConfigDir}
}

// openStore opens the configured database.
func (app *App) openStore(ctx context.Context) (*sqlitestore.Store, error) {
	st, err := sqlitestore.Open(ctx, app.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// session is a store plus a controller whose background failures are collected.
type session struct {
	store *sqlitestore.Store
	ctrl  *viewstate.Controller
	errs  chan error
}

func (app *App) openSession(ctx context.Context) (*session, error) {
	st, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}
	errs := make(chan error, 16)
	ctrl := viewstate.New(st, viewstate.WithErrorHandler(func(err error) {
		select {
		case errs <- err:
		default:
		}
	}))
	return &session{store: st, ctrl: ctrl, errs: errs}, nil
}

// close drains pending writes and reports the first storage failure.
func (s *session) close() error {
	s.ctrl.Close()
	var first error
	select {
	case first = <-s.errs:
	default:
	}
	if err := s.store.Close(); err != nil && first == nil {
		first = fmt.Errorf("close store: %w", err)
	}
	return first
}

func findTodo(items []model.TodoItem, id int64) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
