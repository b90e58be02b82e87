package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/spf13/pflag"
)

const (
	EnvUploadHost  = "HOMESERVER_UPLOAD_HOST"
	EnvOrigin      = "HOMESERVER_ORIGIN"
	EnvMediaSuffix = "HOMESERVER_MEDIA_SUFFIX"
	EnvPlayer      = "HOMESERVER_PLAYER"
)

// DefaultListTimeout bounds listing requests. Uploads have no deadline by
// default since a movie can take minutes to stream.
const DefaultListTimeout = 30 * time.Second

// Config holds the endpoints the client talks to. The upload host is
// separate from the origin serving the media listing.
type Config struct {
	UploadHost    string
	UploadHTTPS   bool
	Origin        string
	MediaBase     string
	MediaSuffix   string
	ListTimeout   time.Duration
	UploadTimeout time.Duration
	Player        string
	PlayerArgs    []string
	Verbose       bool
}

// Error reports an invalid configuration field.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Default() Config {
	return Config{
		UploadHost:  constants.DefaultUploadHost,
		Origin:      constants.DefaultOrigin,
		MediaBase:   constants.MediaPath,
		ListTimeout: DefaultListTimeout,
		Player:      constants.DefaultPlayer,
	}
}

// FromEnv returns the defaults overridden by HOMESERVER_* variables.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}

	c := Default()
	if v := getenv(EnvUploadHost); v != "" {
		c.UploadHost = v
	}
	if v := getenv(EnvOrigin); v != "" {
		c.Origin = v
	}
	if v := getenv(EnvMediaSuffix); v != "" {
		c.MediaSuffix = v
	}
	if v := getenv(EnvPlayer); v != "" {
		c.Player = v
	}
	return c
}

// RegisterFlags adds the persistent client flags, with defaults taken from
// the environment.
func RegisterFlags(flags *pflag.FlagSet) {
	def := FromEnv(nil)

	flags.String("upload-host", def.UploadHost, "host:port of the upload endpoint (env "+EnvUploadHost+")")
	flags.Bool("upload-https", false, "Use https for uploads")
	flags.String("origin", def.Origin, "Origin serving the media listing and files (env "+EnvOrigin+")")
	flags.String("media-suffix", def.MediaSuffix, "Suffix appended to movie names when building media URLs, e.g. .mp4 (env "+EnvMediaSuffix+")")
	flags.Duration("list-timeout", def.ListTimeout, "Timeout for listing requests (0 disables)")
	flags.Duration("upload-timeout", def.UploadTimeout, "Deadline for a whole upload, body included (0 disables)")
	flags.String("player", def.Player, "External player command (env "+EnvPlayer+")")
	flags.StringSlice("player-args", nil, "Extra arguments passed to the player before the media URL")
	flags.BoolP("verbose", "v", false, "Debug logging")
}

// FromFlags reads the flags added by RegisterFlags and validates the result.
func FromFlags(flags *pflag.FlagSet) (Config, error) {
	c := Default()

	var errs []error
	get := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	c.UploadHost, err = flags.GetString("upload-host")
	get(err)
	c.UploadHTTPS, err = flags.GetBool("upload-https")
	get(err)
	c.Origin, err = flags.GetString("origin")
	get(err)
	c.MediaSuffix, err = flags.GetString("media-suffix")
	get(err)
	c.ListTimeout, err = flags.GetDuration("list-timeout")
	get(err)
	c.UploadTimeout, err = flags.GetDuration("upload-timeout")
	get(err)
	c.Player, err = flags.GetString("player")
	get(err)
	c.PlayerArgs, err = flags.GetStringSlice("player-args")
	get(err)
	c.Verbose, err = flags.GetBool("verbose")
	get(err)

	if len(errs) != 0 {
		return Config{}, errors.Join(errs...)
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	host := strings.TrimSpace(c.UploadHost)
	if host == "" {
		return &Error{Field: "upload host", Err: errors.New("empty")}
	}
	if strings.Contains(host, "/") {
		return &Error{Field: "upload host", Err: fmt.Errorf("%q must be host:port, not a URL", host)}
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		return &Error{Field: "upload host", Err: err}
	}

	u, err := url.Parse(c.Origin)
	if err != nil {
		return &Error{Field: "origin", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &Error{Field: "origin", Err: fmt.Errorf("%q must be http or https", c.Origin)}
	}
	if u.Host == "" {
		return &Error{Field: "origin", Err: fmt.Errorf("%q has no host", c.Origin)}
	}

	if c.ListTimeout < 0 {
		return &Error{Field: "list timeout", Err: fmt.Errorf("%v is negative", c.ListTimeout)}
	}
	if c.UploadTimeout < 0 {
		return &Error{Field: "upload timeout", Err: fmt.Errorf("%v is negative", c.UploadTimeout)}
	}

	return nil
}
