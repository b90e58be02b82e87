package play

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/NobleNomadic/HomeServer/internal/config"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/media"
	"github.com/NobleNomadic/HomeServer/internal/player"
	"github.com/NobleNomadic/HomeServer/internal/utils"
	"github.com/spf13/cobra"
)

var printOnly bool

var Cmd = &cobra.Command{
	Use:   "play <name>",
	Short: "Play a movie from the media server",
	Long:  "Play a movie from the media server in an external player, or print its URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		factory := player.ProcessFactory(cfg.Player, cfg.PlayerArgs, cfg.Origin)
		if printOnly {
			factory = player.NewVideo
		}

		surface := media.NewSurface(media.SurfaceOptions{
			MediaBase: cfg.MediaBase,
			Suffix:    cfg.MediaSuffix,
			NewPlayer: factory,
		})
		defer surface.Close()

		err = surface.LoadMovie(strings.Join(args, " "))
		if errors.Is(err, constants.ErrEmptyPlaybackName) {
			fmt.Fprintln(os.Stderr, surface.Message())
			return err
		}
		if err != nil {
			slog.Error("Fail to start player", "player", cfg.Player, "error", err)
			return err
		}

		current := surface.Current()
		if printOnly {
			fmt.Fprintln(os.Stdout, player.ResolveURL(cfg.Origin, current.Source()))
			return nil
		}

		proc, ok := current.(*player.Process)
		if !ok {
			return nil
		}

		slog.Info("Playing", "url", proc.Source())
		go func() {
			<-utils.WaitForSignal()
			slog.Info("Abort")
			surface.Close()
		}()

		err = proc.Wait()
		if err != nil {
			slog.Debug("Player exited", "error", err)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&printOnly, "print", false, "Print the media URL instead of starting the player")
}
