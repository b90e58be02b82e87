package media

import (
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/models"
	"github.com/gofiber/fiber/v2"
)

var errNotText = errors.New("Listing is not UTF-8 text")

type BrowserOptions struct {
	// Origin is scheme://host[:port] of the media server.
	Origin    string
	Timeout   time.Duration
	UserAgent string
}

// Browser fetches the media listing from the media origin.
type Browser struct {
	opts BrowserOptions
}

func NewBrowser(opts BrowserOptions) *Browser {
	if opts.Origin == "" {
		opts.Origin = constants.DefaultOrigin
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.UserAgent
	}
	return &Browser{opts: opts}
}

func (b *Browser) ListURL() string {
	return strings.TrimSuffix(b.opts.Origin, "/") + constants.MediaListPath
}

// FetchList issues one listing request. Every failure is reported as a
// *constants.ListError.
func (b *Browser) FetchList() (models.MediaList, error) {
	agent := fiber.Get(b.ListURL())
	agent.UserAgent(b.opts.UserAgent)
	if b.opts.Timeout > 0 {
		agent.Timeout(b.opts.Timeout)
	}

	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return nil, &constants.ListError{Err: err}
	}

	status, body, errs := agent.Bytes()
	if len(errs) != 0 {
		return nil, &constants.ListError{Err: errs[0]}
	}
	if !constants.IsSuccess(status) {
		return nil, &constants.ListError{Err: constants.ParseError(status, "", body)}
	}
	if !utf8.Valid(body) {
		return nil, &constants.ListError{Err: errNotText}
	}

	list := ParseList(string(body))
	slog.Debug("Movie list loaded", "entries", len(list))

	return list, nil
}

// ParseList turns a listing body into entries in server order. The whole
// body is trimmed first, so an empty body yields an empty list.
func ParseList(text string) models.MediaList {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.MediaList{}
	}

	lines := strings.Split(text, "\n")
	list := make(models.MediaList, 0, len(lines))
	for _, line := range lines {
		list = append(list, models.MediaEntry{DisplayName: strings.TrimSuffix(line, "\r")})
	}

	return list
}

// Select activates a rendered row: it writes the entry's name into the
// selection and does not start playback.
func Select(list models.MediaList, row int, sel *models.PlaybackSelection) bool {
	entry, ok := list.At(row)
	if !ok {
		return false
	}
	sel.Set(entry.DisplayName)
	return true
}
