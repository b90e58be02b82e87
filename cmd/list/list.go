package list

import (
	"fmt"
	"os"

	"github.com/NobleNomadic/HomeServer/internal/config"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/media"
	"github.com/NobleNomadic/HomeServer/internal/ui/term"
	"github.com/spf13/cobra"
)

var plain bool

var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List the media available on the server",
	Long:  "List the media available on the server, in the order the server returns them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		browser := media.NewBrowser(media.BrowserOptions{
			Origin:  cfg.Origin,
			Timeout: cfg.ListTimeout,
		})

		list, err := browser.FetchList()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load movie list.")
			return err
		}

		if plain {
			for _, name := range list.Names() {
				fmt.Fprintln(os.Stdout, name)
			}
			return nil
		}

		fmt.Fprint(os.Stdout, term.RenderList(list))
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&plain, "plain", false, "Print one name per line without numbering")
}
