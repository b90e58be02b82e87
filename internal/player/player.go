package player

import "github.com/google/uuid"

// Options are applied to every new player instance.
type Options struct {
	Autoplay bool
	Controls bool
}

// Player is one instance bound to the playback surface.
type Player interface {
	ID() string
	Source() string
	Close() error
}

// Factory creates a player for an origin-relative media source.
type Factory func(src string, opts Options) (Player, error)

func newID() string {
	return uuid.NewString()
}
