package models

import "strings"

// MediaEntry is one line of the server's media listing.
type MediaEntry struct {
	DisplayName string
}

// MediaList keeps the server's order.
type MediaList []MediaEntry

func (l MediaList) Names() []string {
	names := make([]string, 0, len(l))
	for _, e := range l {
		names = append(names, e.DisplayName)
	}
	return names
}

// At returns the entry rendered at 1-based row.
func (l MediaList) At(row int) (MediaEntry, bool) {
	if row < 1 || row > len(l) {
		return MediaEntry{}, false
	}
	return l[row-1], true
}

// PlaybackSelection is the value of the movie name field.
type PlaybackSelection struct {
	Name string
}

func (s *PlaybackSelection) Set(name string) {
	s.Name = name
}

// Value returns the name as it will be used for playback.
func (s *PlaybackSelection) Value() string {
	return strings.TrimSpace(s.Name)
}
