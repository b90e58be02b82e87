package serve

import (
	"log/slog"
	"sync"

	hsserve "github.com/NobleNomadic/HomeServer/internal/homeserver/serve"
	"github.com/NobleNomadic/HomeServer/internal/utils"
	"github.com/spf13/cobra"
)

var (
	addr      string
	mediaDir  string
	uploadDir string
	bodyLimit int64
)

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a media server for testing the client",
	Long:  "Run a media server that accepts uploads and serves the media listing and files",
	Run: func(cmd *cobra.Command, args []string) {
		var wg sync.WaitGroup

		server := hsserve.NewMediaServer(hsserve.Options{
			Addr:      addr,
			MediaDir:  mediaDir,
			UploadDir: uploadDir,
			BodyLimit: bodyLimit,
		})

		if err := server.Init(); err != nil {
			slog.Error("Failed to initialize server", "error", err)
			return
		}

		urls, err := utils.ListenURLs(addr)
		if err != nil {
			slog.Warn("Fail to get local addresses", "error", err)
		}
		for _, u := range urls {
			slog.Info("Serving", "url", u, "media", mediaDir)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Start()
			if err != nil {
				slog.Error("Fail to start server", "error", err)
				return
			}
		}()

		<-utils.WaitForSignal()

		server.Stop()
		wg.Wait()
	},
}

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", ":5400", "Address to listen on")
	Cmd.Flags().StringVarP(&mediaDir, "media-dir", "d", ".", "Directory with media files")
	Cmd.Flags().StringVarP(&uploadDir, "upload-dir", "u", "", "Directory for uploaded files, defaults to the media directory")
	Cmd.Flags().Int64Var(&bodyLimit, "body-limit", hsserve.DefaultBodyLimit, "Maximum upload size in bytes")
}
