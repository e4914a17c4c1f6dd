package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/snaptodo/internal/httpapi"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list over HTTP with a live websocket feed",
		Args:  exactArgs(0, "todo serve [--addr host:port]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = app.cfg.HTTP.Addr
			}
			token, expiresAt, err := app.serveToken(time.Now())
			if err != nil {
				return err
			}
			if token == "" {
				log.Warn().Msg("no token configured, API is open to anyone who can reach it")
			}

			s, err := app.openSession(ctx)
			if err != nil {
				return err
			}
			if err := s.store.WatchExternal(ctx); err != nil {
				log.Warn().Err(err).Msg("not watching the database for other writers")
			}

			srv := httpapi.New(s.ctrl, httpapi.Config{
				Addr:           addr,
				CORSOrigins:    app.cfg.HTTP.CORSOrigins,
				Token:          token,
				TokenExpiresAt: expiresAt,
			})
			serveErr := srv.ListenAndServe(ctx)
			if err := s.close(); err != nil {
				log.Error().Err(err).Msg("storage failure during serve")
			}
			return serveErr
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $TODO_HTTP_ADDR)")
	return cmd
}

// serveToken picks the API token: the configured one, else the stored
// credentials. A stored token past its expiry is refused.
func (app *App) serveToken(now time.Time) (string, *time.Time, error) {
	if app.cfg.Token != "" {
		return app.cfg.Token, nil, nil
	}
	ti, err := app.credentials().Get()
	if err != nil {
		return "", nil, err
	}
	if ti == nil {
		return "", nil, nil
	}
	if ti.Expired(now) {
		return "", nil, fmt.Errorf("stored token expired at %s, run `todo auth login` to replace it",
			ti.ExpiresAt.Local().Format(time.RFC3339))
	}
	return ti.Token, ti.ExpiresAt, nil
}
