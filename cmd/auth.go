package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/auth"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with YouTube",
	}
	cmd.AddCommand(newAuthLoginCmd(a), newAuthStatusCmd(a), newAuthLogoutCmd(a))
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var (
		method       string
		refreshToken string
		clientID     string
		clientSecret string
		force        bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and cache credentials",
		Long: `Authenticate with the YouTube API.

By default each strategy is tried in order: environment variables, the
cached token file, then an interactive browser flow. Use --method to force
one strategy, --token to install a refresh token directly, or --force to
discard the cached token and prompt again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case refreshToken != "":
				if err := a.mgr.AuthenticateWithToken(ctx, refreshToken, clientID, clientSecret); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Authenticated with provided refresh token.")
			case force:
				if err := a.mgr.Reauth(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Re-authenticated interactively.")
			case method != "":
				m, err := auth.ParseMethod(method)
				if err != nil {
					return err
				}
				used, err := a.mgr.Authenticate(ctx, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Authenticated via %s.\n", used)
			default:
				used, err := a.mgr.AutoAuthenticate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Authenticated via %s.\n", used)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "",
		"Force one auth strategy: environment, token_file, or interactive")
	cmd.Flags().StringVar(&refreshToken, "token", "", "Refresh token to install directly")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id (with --token)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (with --token)")
	cmd.Flags().BoolVar(&force, "force", false, "Discard cached credentials and prompt again")
	return cmd
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status without touching the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Passive snapshot: load the cached token file but never refresh
			// or prompt.
			a.mgr.LoadCached()
			st := a.mgr.GetStatus()
			return renderObject(a.out, strconv.FormatBool(st.Authenticated), st, [][2]string{
				{"Authenticated", strconv.FormatBool(st.Authenticated)},
				{"Token file", strconv.FormatBool(st.TokenFileExists)},
				{"Environment configured", strconv.FormatBool(st.EnvConfigured)},
				{"Client secret file", strconv.FormatBool(st.ClientSecretExists)},
			})
		},
	}
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete cached credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
