package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ban",
		Short: "Ban and unban live chat users",
	}
	cmd.AddCommand(newBanAddCmd(a), newBanRemoveCmd(a))
	return cmd
}

func newBanAddCmd(a *app) *cobra.Command {
	var (
		temporary bool
		duration  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "add <broadcast-id> <channel-id>",
		Short: "Ban a user from a broadcast's chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			chatID, err := resolveChatID(cmd.Context(), api, args[0])
			if err != nil {
				return err
			}
			banType := "permanent"
			var seconds uint64
			if temporary {
				banType = "temporary"
				seconds = uint64(duration.Seconds())
			}
			ban, err := api.BanUser(cmd.Context(), chatID, args[1], banType, seconds)
			if err != nil {
				return err
			}
			if temporary {
				fmt.Fprintf(cmd.OutOrStdout(), "Banned %s for %s (ban id %s).\n", args[1], duration, ban.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Banned %s permanently (ban id %s).\n", args[1], ban.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&temporary, "temporary", false, "Time-limited ban instead of permanent")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Minute, "Ban length (with --temporary)")
	return cmd
}

func newBanRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ban-id>",
		Short: "Lift a ban (use the ban id from 'ban add')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.UnbanUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed ban %s.\n", args[0])
			return nil
		},
	}
}
