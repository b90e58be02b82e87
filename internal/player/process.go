package player

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Process plays a media URL in an external player program.
type Process struct {
	id   string
	src  string
	cmd  *exec.Cmd
	done chan struct{}
	err  error
	once sync.Once
}

var errPlayerOptions = errors.New("External players always autoplay with their own controls")

// ProcessFactory returns a Factory that launches command with args followed
// by the absolute media URL, resolved against origin. External players start
// playing at once and show their own controls, so options asking for anything
// else are refused.
func ProcessFactory(command string, args []string, origin string) Factory {
	return func(src string, opts Options) (Player, error) {
		if !opts.Autoplay || !opts.Controls {
			return nil, errPlayerOptions
		}
		return StartProcess(command, args, ResolveURL(origin, src))
	}
}

func StartProcess(command string, args []string, mediaURL string) (*Process, error) {
	if command == "" {
		return nil, errors.New("No player command")
	}

	cmdArgs := append(append([]string(nil), args...), mediaURL)
	cmd := exec.Command(command, cmdArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	if err != nil {
		return nil, err
	}

	p := &Process{
		id:   newID(),
		src:  mediaURL,
		cmd:  cmd,
		done: make(chan struct{}),
	}

	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()

	slog.Debug("Player started", "command", command, "url", mediaURL, "pid", cmd.Process.Pid)
	return p, nil
}

func (p *Process) ID() string     { return p.id }
func (p *Process) Source() string { return p.src }

// Wait blocks until the player program exits.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Close kills the player program if it is still running and reaps it.
func (p *Process) Close() error {
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}

		err := p.cmd.Process.Kill()
		if err != nil && !errors.Is(err, os.ErrProcessDone) {
			slog.Warn("Fail to stop player", "pid", p.cmd.Process.Pid, "error", err)
		}
		<-p.done
	})
	return nil
}

// ResolveURL joins an origin with an origin-relative source and escapes each
// path segment, so names with spaces, '#' or '?' reach the player intact.
// Sources that already carry a scheme are returned as is.
func ResolveURL(origin, src string) string {
	if strings.Contains(src, "://") || origin == "" {
		return src
	}

	segments := strings.Split(strings.TrimPrefix(src, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimSuffix(origin, "/") + "/" + strings.Join(segments, "/")
}
