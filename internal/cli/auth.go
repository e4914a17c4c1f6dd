package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/snaptodo/internal/auth"
	"github.com/idilsaglam/snaptodo/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token required by `todo serve`",
		Args:  exactArgs(0, "todo auth <login|logout|status|whoami>"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usagef("usage: todo auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  exactArgs(0, "todo auth logout"),
		RunE:  func(*cobra.Command, []string) error { return doAuthLogout(app) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  exactArgs(0, "todo auth status"),
		RunE:  func(*cobra.Command, []string) error { return doAuthStatus(app) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Decode the token payload when it is a JWT",
		Args:  exactArgs(0, "todo auth whoami"),
		RunE:  func(*cobra.Command, []string) error { return doAuthWhoAmI(app) },
	})
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var token string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a token (prompted when --token is not given)",
		Args:  exactArgs(0, "todo auth login [--token T] [--ttl D]"),
		RunE: func(*cobra.Command, []string) error {
			if token == "" {
				fmt.Fprint(app.stdout, "Paste your token: ")
				sc := bufio.NewScanner(app.stdin)
				if !sc.Scan() {
					if err := sc.Err(); err != nil {
						return fmt.Errorf("read token: %w", err)
					}
					return errors.New("read token: no input")
				}
				token = sc.Text()
			}
			var expires *time.Time
			if ttl > 0 {
				at := time.Now().Add(ttl)
				expires = &at
			}
			if err := app.credentials().Set(token, expires); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Token value")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Expire the token after this long")
	return cmd
}

func doAuthLogout(app *App) error {
	creds := app.credentials()
	ti, _ := creds.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvVar + " env var (nothing to delete)")
		return nil
	}
	if err := creds.Delete(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK("logged out")
	return nil
}

func doAuthStatus(app *App) error {
	ti, err := app.credentials().Get()
	if err != nil {
		return err
	}
	out := app.stdout
	if ti == nil {
		fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(out, "Run: todo auth login")
		return nil
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(out, "expires: (never)")
	case ti.Expired(time.Now()):
		fmt.Fprintf(out, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, "env override: "+auth.EnvVar)
	return nil
}

// whoami decodes a JWT locally without checking its signature; opaque
// tokens print basic info.
func doAuthWhoAmI(app *App) error {
	ti, _ := app.credentials().Get()
	if ti == nil {
		return usagef("not logged in. Run: todo auth login")
	}
	out := app.stdout
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ti.Token, claims); err == nil {
		payload, err := json.Marshal(claims)
		if err != nil {
			return fmt.Errorf("encode claims: %w", err)
		}
		fmt.Fprintln(out, "JWT payload:")
		fmt.Fprintln(out, string(payload))
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			fmt.Fprintf(out, "jwt expires: %s\n", exp.UTC().Format(time.RFC3339))
		}
		return nil
	}
	fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(out, "source:", ti.Source)
	return nil
}
