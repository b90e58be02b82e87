package browse

import (
	"io"
	"log/slog"
	"os"

	"github.com/NobleNomadic/HomeServer/internal/config"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/media"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/upload"
	"github.com/NobleNomadic/HomeServer/internal/player"
	"github.com/NobleNomadic/HomeServer/internal/ui/term"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	noPlayer bool
	logFile  string
)

var Cmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, upload and play media interactively",
	Long:  "Browse the media list, upload files and play movies from an interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		factory := player.ProcessFactory(cfg.Player, cfg.PlayerArgs, cfg.Origin)
		if noPlayer {
			factory = player.NewVideo
		}

		surface := media.NewSurface(media.SurfaceOptions{
			MediaBase: cfg.MediaBase,
			Suffix:    cfg.MediaSuffix,
			NewPlayer: factory,
		})
		defer surface.Close()

		client := upload.NewClient(upload.Options{
			Host:    cfg.UploadHost,
			HTTPS:   cfg.UploadHTTPS,
			Timeout: cfg.UploadTimeout,
		})
		browser := media.NewBrowser(media.BrowserOptions{
			Origin:  cfg.Origin,
			Timeout: cfg.ListTimeout,
		})

		// slog output would tear the screen while the view is up
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
		} else {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}

		_, err = tea.NewProgram(term.New(client, browser, surface), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&noPlayer, "no-player", false, "Track playback without starting a player program")
	Cmd.Flags().StringVarP(&logFile, "log", "l", "", "Write logs to this file while browsing")
}
