package upload

import (
	"errors"
	"fmt"
	"os"

	"github.com/NobleNomadic/HomeServer/internal/config"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	hsupload "github.com/NobleNomadic/HomeServer/internal/homeserver/upload"
	"github.com/NobleNomadic/HomeServer/internal/models"
	"github.com/NobleNomadic/HomeServer/internal/ui/term"
	"github.com/spf13/cobra"
)

var file string

var Cmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a file to the media server",
	Long:  "Upload a file to the media server's upload endpoint as a single raw request",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if len(args) > 0 {
			file = args[0]
		}

		client := hsupload.NewClient(hsupload.Options{
			Host:    cfg.UploadHost,
			HTTPS:   cfg.UploadHTTPS,
			Timeout: cfg.UploadTimeout,
		})

		var selected *models.SelectedFile
		if file != "" {
			selected, err = models.OpenSelectedFile(file)
			if err != nil {
				return fmt.Errorf("Fail to open file: %w", err)
			}
		}

		msg, err := client.Upload(selected)
		fmt.Fprintln(os.Stdout, term.UploadMessage(msg, err))
		if err != nil {
			if !errors.Is(err, constants.ErrNoFileSelected) {
				return err
			}
			return errors.New("File is required")
		}

		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&file, "file", "f", "", "File to be uploaded")
}
