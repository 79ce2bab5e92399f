package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harvestlink/farmgate/internal/authflow"
	"github.com/harvestlink/farmgate/internal/authflow/inbound"
	"github.com/harvestlink/farmgate/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it.
func Execute() {
	a := New()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Close(ctx)
	}()

	root := &cobra.Command{
		Use:           "farmgate",
		Short:         "Farmgate produce marketplace client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(a.cmdLogin(), a.cmdLogout(), a.cmdWhoami(), a.cmdStub())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *App) cmdLogin() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in or create an account with an emailed code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := a.session.Current(cmd.Context())
			if err != nil {
				return err
			}
			if rec.Authenticated() {
				fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s (%s). Run `farmgate logout` first.\n", rec.Name, rec.Email)
				return nil
			}

			flow, err := authflow.New(authflow.Dependency{
				Config:     a.config,
				Instrument: a.ins,
				Validator:  a.validator,
				UUID:       a.uuid,
				Session:    a.session,
			})
			if err != nil {
				return err
			}

			term := inbound.NewTerminal(flow, cmd.InOrStdin(), cmd.OutOrStdout())
			return term.Run(cmd.Context())
		},
	}
}

func (a *App) cmdLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *App) cmdWhoami() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := a.session.Current(cmd.Context())
			if err != nil {
				return err
			}
			if !rec.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", rec.Name, rec.Email, rec.Role)

			// Expiry comes from the unverified token payload; only the
			// identity service can actually vouch for the token.
			if claims, err := jwt.Peek(rec.Token); err == nil && claims.ExpiresAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "token expires %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (a *App) cmdStub() *cobra.Command {
	return &cobra.Command{
		Use:   "stub",
		Short: "Run the development identity service",
		RunE: func(*cobra.Command, []string) error {
			srv := a.NewServer()
			wait := srv.Start()
			<-wait

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Stop(ctx)
			return nil
		},
	}
}
