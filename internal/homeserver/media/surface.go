package media

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/player"
)

type State int

const (
	StateEmpty State = iota
	StatePrompting
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePrompting:
		return "prompting"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

type SurfaceOptions struct {
	// MediaBase is joined with the movie name, "/media/" by default.
	MediaBase string
	// Suffix is appended after the name, e.g. ".mp4". Empty by default.
	Suffix    string
	NewPlayer player.Factory
}

// Surface hosts at most one player at a time.
type Surface struct {
	mu      sync.Mutex
	opts    SurfaceOptions
	state   State
	name    string
	message string
	current player.Player
}

func NewSurface(opts SurfaceOptions) *Surface {
	if opts.MediaBase == "" {
		opts.MediaBase = constants.MediaPath
	}
	if opts.NewPlayer == nil {
		opts.NewPlayer = player.NewVideo
	}
	return &Surface{opts: opts}
}

// LoadMovie replaces whatever the surface shows. A blank name leaves the
// surface prompting for a name and returns constants.ErrEmptyPlaybackName.
func (s *Surface) LoadMovie(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// clear previous video
	s.discard()

	name = strings.TrimSpace(name)
	if name == "" {
		s.state = StatePrompting
		s.message = constants.PromptMessage
		return constants.ErrEmptyPlaybackName
	}

	src := MediaURL(s.opts.MediaBase, name, s.opts.Suffix)
	p, err := s.opts.NewPlayer(src, player.Options{Autoplay: true, Controls: true})
	if err != nil {
		return err
	}

	s.current = p
	s.state = StatePlaying
	s.name = name
	slog.Debug("Loaded movie", "name", name, "src", src, "player", p.ID())

	return nil
}

func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the attached player, nil unless playing.
func (s *Surface) Current() player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Surface) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Message is the text shown in place of a player.
func (s *Surface) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Close tears down the attached player and empties the surface.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discard()
}

func (s *Surface) discard() {
	if s.current != nil {
		err := s.current.Close()
		if err != nil {
			slog.Warn("Fail to close player", "player", s.current.ID(), "error", err)
		}
	}
	s.current = nil
	s.state = StateEmpty
	s.name = ""
	s.message = ""
}

// MediaURL joins the media base path with a name as typed; no escaping is
// applied.
func MediaURL(base, name, suffix string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + name + suffix
}
