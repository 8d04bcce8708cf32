package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/azuracast"
)

func newAzuraCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "azura",
		Short: "Control the AzuraCast radio station",
	}
	cmd.AddCommand(
		newAzuraStatusCmd(a),
		newAzuraStartCmd(a),
		newAzuraStopCmd(a),
		newAzuraRestartCmd(a),
		newAzuraNowPlayingCmd(a),
	)
	return cmd
}

func (a *app) azura() (*azuracast.Client, error) {
	c := azuracast.New(a.cfg)
	if c == nil {
		return nil, fmt.Errorf("AzuraCast is not configured: set AZURACAST_URL, AZURACAST_API_KEY, and AZURACAST_STATION_ID")
	}
	return c, nil
}

func newAzuraStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show station info and service state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			azura, err := a.azura()
			if err != nil {
				return err
			}
			st, err := azura.Status(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := azura.GetServiceStatus(cmd.Context())
			if err != nil {
				return err
			}
			combined := struct {
				azuracast.Station
				azuracast.ServiceStatus
			}{st, svc}
			return renderObject(a.out, st.Shortcode, combined, [][2]string{
				{"Station", st.Name},
				{"Shortcode", st.Shortcode},
				{"Backend", st.Backend},
				{"Frontend", st.Frontend},
				{"Backend running", strconv.FormatBool(svc.BackendRunning)},
				{"Frontend running", strconv.FormatBool(svc.FrontendRunning)},
				{"Player", orDash(st.PublicPlayerURL)},
			})
		},
	}
}

func azuraActionCmd(a *app, use, short string,
	action func(*azuracast.Client, *cobra.Command) (azuracast.ActionResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			azura, err := a.azura()
			if err != nil {
				return err
			}
			res, err := action(azura, cmd)
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = "OK"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newAzuraStartCmd(a *app) *cobra.Command {
	return azuraActionCmd(a, "start", "Start the station backend",
		func(c *azuracast.Client, cmd *cobra.Command) (azuracast.ActionResult, error) {
			return c.StartBackend(cmd.Context())
		})
}

func newAzuraStopCmd(a *app) *cobra.Command {
	return azuraActionCmd(a, "stop", "Stop the station backend",
		func(c *azuracast.Client, cmd *cobra.Command) (azuracast.ActionResult, error) {
			return c.StopBackend(cmd.Context())
		})
}

func newAzuraRestartCmd(a *app) *cobra.Command {
	var frontend bool
	cmd := azuraActionCmd(a, "restart", "Restart the station backend",
		func(c *azuracast.Client, cmd *cobra.Command) (azuracast.ActionResult, error) {
			if frontend {
				return c.RestartFrontend(cmd.Context())
			}
			return c.RestartBackend(cmd.Context())
		})
	cmd.Flags().BoolVar(&frontend, "frontend", false, "Restart the frontend (icecast) instead of the backend")
	return cmd
}

func newAzuraNowPlayingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "now-playing",
		Short: "Show the currently playing track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			azura, err := a.azura()
			if err != nil {
				return err
			}
			np, err := azura.GetNowPlaying(cmd.Context())
			if err != nil {
				return err
			}
			track := np.NowPlaying.Song.Title
			if np.NowPlaying.Song.Artist != "" {
				track = np.NowPlaying.Song.Artist + " - " + track
			}
			return renderObject(a.out, track, np, [][2]string{
				{"Now playing", orDash(track)},
				{"Listeners", strconv.Itoa(np.Listeners.Current)},
			})
		},
	}
}
