package serve

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const DefaultBodyLimit int64 = 16 << 30

var errOutsideRoot = errors.New("Path escapes root")

type Options struct {
	Addr      string
	MediaDir  string
	UploadDir string
	// BodyLimit caps the declared Content-Length of uploads.
	BodyLimit int64
}

// MediaServer receives uploads and serves the media directory.
type MediaServer struct {
	opts      Options
	webServer *fiber.App
}

func NewMediaServer(opts Options) *MediaServer {
	if opts.Addr == "" {
		opts.Addr = ":5400"
	}
	if opts.MediaDir == "" {
		opts.MediaDir = "."
	}
	if opts.UploadDir == "" {
		opts.UploadDir = opts.MediaDir
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}

	ms := &MediaServer{
		opts: opts,
		webServer: fiber.New(fiber.Config{
			AppName:               "homeserver",
			DisableStartupMessage: true,
			StreamRequestBody:     true,
		}),
	}

	server := ms.webServer
	server.Use(recover.New())
	server.Use(cors.New())
	server.Post(constants.UploadPath, ms.uploadHandler)
	server.Get(constants.MediaPath+"*", ms.mediaHandler)

	return ms
}

// App exposes the fiber app, mainly for tests.
func (ms *MediaServer) App() *fiber.App {
	return ms.webServer
}

func (ms *MediaServer) Init() error {
	for _, dir := range []string{ms.opts.MediaDir, ms.opts.UploadDir} {
		err := os.MkdirAll(dir, fs.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ms *MediaServer) Start() error {
	slog.Info("Serving media", "addr", ms.opts.Addr, "media", ms.opts.MediaDir, "uploads", ms.opts.UploadDir)
	return ms.webServer.Listen(ms.opts.Addr)
}

func (ms *MediaServer) Stop() error {
	slog.Info("Stop serving")
	return ms.webServer.Shutdown()
}

// ListMedia returns the names of regular files in the media directory,
// sorted by name.
func ListMedia(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// safeJoin resolves name inside root, rejecting anything that is not a
// plain path below it.
func safeJoin(root, name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", errOutsideRoot
	}

	full := filepath.Join(root, filepath.FromSlash(name))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absRoot, absFull)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return full, nil
}
