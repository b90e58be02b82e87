package player

import "sync/atomic"

// Video is an in-memory video element: it records what a renderer needs
// and holds no external resources.
type Video struct {
	id       string
	Src      string
	Autoplay bool
	Controls bool
	closed   atomic.Bool
}

func NewVideo(src string, opts Options) (Player, error) {
	return &Video{
		id:       newID(),
		Src:      src,
		Autoplay: opts.Autoplay,
		Controls: opts.Controls,
	}, nil
}

func (v *Video) ID() string     { return v.id }
func (v *Video) Source() string { return v.Src }

func (v *Video) Close() error {
	v.closed.Store(true)
	return nil
}

func (v *Video) Closed() bool {
	return v.closed.Load()
}
