package serve

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/utils"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

func (ms *MediaServer) uploadHandler(c *fiber.Ctx) error {
	// strings in fiber are unsafe due to zero allocation
	name := fiberutils.CopyString(c.Query(constants.UploadNameParam))
	if name == "" || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid file name")
	}

	if c.Request().Header.ContentLength() > 0 && int64(c.Request().Header.ContentLength()) > ms.opts.BodyLimit {
		return c.Status(fiber.StatusRequestEntityTooLarge).SendString("file too large")
	}

	saveAs, err := safeJoin(ms.opts.UploadDir, name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid file name")
	}

	fd, err := os.Create(saveAs)
	if err != nil {
		slog.Error("Fail to create file", "file", saveAs, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Cannot store file")
	}

	err = c.Request().BodyWriteTo(fd)
	if cerr := fd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		slog.Error("Upload error", "remote", c.IP(), "file", name, "error", err)
		os.Remove(saveAs)
		return c.Status(fiber.StatusInternalServerError).SendString("Cannot store file")
	}

	fi, err := os.Stat(saveAs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Cannot store file")
	}

	checksum, err := utils.SHA256ofFile(saveAs)
	if err != nil {
		slog.Warn("Fail to hash file", "file", saveAs, "error", err)
	}
	slog.Info("Recv file", "file", name, "size", fi.Size(), "sha256", checksum, "remote", c.IP())

	return c.SendString(fmt.Sprintf("File received: %s (%d bytes)", name, fi.Size()))
}

func (ms *MediaServer) mediaHandler(c *fiber.Ctx) error {
	// decode by hand: '+' in a media name is literal
	name, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}
	if name == "" {
		return ms.listHandler(c)
	}

	fpath, err := safeJoin(ms.opts.MediaDir, name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	fi, err := os.Stat(fpath)
	if err != nil || !fi.Mode().IsRegular() {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	fd, err := os.Open(fpath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	// the stream is closed by fasthttp once the response is written
	ext := filepath.Ext(fpath)
	if ext == "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	} else {
		c.Type(ext)
	}
	return c.SendStream(fd, int(fi.Size()))
}

func (ms *MediaServer) listHandler(c *fiber.Ctx) error {
	names, err := ListMedia(ms.opts.MediaDir)
	if err != nil {
		slog.Error("Fail to list media", "dir", ms.opts.MediaDir, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Cannot list media")
	}

	body := strings.Join(names, "\n")
	if body != "" {
		body += "\n"
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(body)
}
