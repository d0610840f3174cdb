package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carjai/marketplace-client/internal/app"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

func signinCmd() *cobra.Command {
	var (
		password string
		google   string
	)

	cmd := &cobra.Command{
		Use:   "signin [email-or-username]",
		Short: "Sign in as a buyer or seller",
		Long: `Sign in with an email or username and password, or with a Google ID
token. Any admin session in the same jar is signed out first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var err error
				switch {
				case google != "":
					err = a.Users.GoogleSignin(ctx, google)
				case len(args) == 1:
					err = a.Users.Signin(ctx, domain.SigninRequest{EmailOrUsername: args[0], Password: password})
				default:
					return errors.New("an email or username is required unless --google is set")
				}
				if err != nil {
					return formError(a.Users.Snapshot().Error, err)
				}
				return reportIdentity(cmd, a)
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&google, "google", "", "Google ID token")

	return cmd
}

func signupCmd() *cobra.Command {
	var req domain.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a buyer/seller account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Users.Signup(ctx, req); err != nil {
					return formError(a.Users.Snapshot().Error, err)
				}
				return reportIdentity(cmd, a)
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&req.Username, "username", "", "Username (3-20 characters)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")

	return cmd
}

func signoutCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "signout",
		Short: "Sign out the buyer/seller session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if local {
					if err := a.ForgetSession(); err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "Local session cleared")
					return nil
				}
				a.Users.Signout(ctx)
				success(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Drop saved cookies without contacting the backend")

	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the effective identity",
		Long:  `Show the effective identity. An admin session takes precedence over a user session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return printJSON(cmd.OutOrStdout(), a.Identity())
			})
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Extend the buyer/seller session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Users.Refresh(ctx); err != nil {
					return err
				}
				return reportIdentity(cmd, a)
			})
		},
	}
}

func navigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Move to a page, re-validating sessions whose boundary is crossed",
		Long: `Record a navigation to path. Entering or leaving the protected user
pages re-validates the user session; entering or leaving /admin re-validates
the admin session. The current path is kept between runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				revalidated := a.Navigate(ctx, args[0])
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "path: %s\n", a.Routes.Current())
				if len(revalidated) > 0 {
					fmt.Fprintf(out, "revalidated: %s\n", strings.Join(revalidated, ", "))
				}
				fmt.Fprintf(out, "identity: %s\n", a.Identity().Kind)
				return nil
			})
		},
	}
}

func reportIdentity(cmd *cobra.Command, a *app.App) error {
	id := a.Identity()
	switch id.Kind {
	case domain.IdentityUser:
		success(cmd.OutOrStdout(), "Signed in as %s", id.User.Username)
	case domain.IdentityAdmin:
		success(cmd.OutOrStdout(), "Signed in as admin %s", id.Admin.Username)
	default:
		warn(cmd.OutOrStdout(), "Not signed in")
	}
	return nil
}

// formError prefixes the failure with the form field it belongs to.
func formError(fe *domain.FieldError, err error) error {
	if fe == nil || fe.Field == "" || fe.Field == domain.FieldGeneral {
		return err
	}
	return fmt.Errorf("%s: %w", fe.Field, err)
}
