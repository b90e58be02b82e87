package term

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/media"
	"github.com/NobleNomadic/HomeServer/internal/models"
	"github.com/NobleNomadic/HomeServer/internal/player"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeLister struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

func (f *fakeLister) FetchList() (models.MediaList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return media.ParseList(f.body), nil
}

type fakeUploader struct {
	mu    sync.Mutex
	msg   string
	err   error
	files []string
	sizes []int64
}

func (f *fakeUploader) Upload(file *models.SelectedFile) (string, error) {
	if file == nil {
		return "", constants.ErrNoFileSelected
	}
	defer file.Close()

	b, _ := io.ReadAll(file.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file.Name)
	f.sizes = append(f.sizes, int64(len(b)))
	if f.err != nil {
		return "", f.err
	}
	return f.msg, nil
}

type players struct {
	created []*player.Video
}

func (p *players) factory(src string, opts player.Options) (player.Player, error) {
	v, err := player.NewVideo(src, opts)
	if err != nil {
		return nil, err
	}
	p.created = append(p.created, v.(*player.Video))
	return v, nil
}

func newModel(t *testing.T, lister Lister, uploader Uploader) (*Model, *players) {
	t.Helper()

	ps := &players{}
	surface := media.NewSurface(media.SurfaceOptions{NewPlayer: ps.factory})

	m := New(uploader, lister, surface)
	m.SetOpener(func(path string) (*models.SelectedFile, error) {
		if path == "missing.mp4" {
			return nil, errors.New("no such file")
		}
		return models.NewSelectedFile(path, int64(len("content of "+path)), strings.NewReader("content of "+path)), nil
	})
	return m, ps
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one and returns the command of the last one.
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

// settle runs an asynchronous action to completion and feeds its result back.
func settle(m *Model, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := m.Update(cmd())
	return next
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func hasNote(m *Model, want string) bool {
	for _, n := range m.Notes() {
		if strings.Contains(n, want) {
			return true
		}
	}
	return false
}

func TestModelLoadsListOnInit(t *testing.T) {
	lister := &fakeLister{body: "a.mp4\nb.mkv\n"}
	m, _ := newModel(t, lister, &fakeUploader{})

	if !strings.Contains(m.View(), "Loading...") {
		t.Errorf("View() before the list arrives = %q", m.View())
	}

	settle(m, m.Init())

	if lister.calls != 1 {
		t.Errorf("list fetched %d times; want 1", lister.calls)
	}
	list, ok := m.List()
	if !ok || len(list) != 2 {
		t.Errorf("List() = %v, %v", list, ok)
	}
	view := m.View()
	if !strings.Contains(view, "1) a.mp4") || !strings.Contains(view, "2) b.mkv") {
		t.Errorf("View() = %q", view)
	}
}

func TestModelEmptyList(t *testing.T) {
	m, _ := newModel(t, &fakeLister{body: "\n"}, &fakeUploader{})
	settle(m, m.Init())

	if list, ok := m.List(); !ok || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty, ok", list, ok)
	}
	if !strings.Contains(m.View(), "(none)") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelListFailure(t *testing.T) {
	lister := &fakeLister{err: &constants.ListError{Err: errors.New("500")}}
	m, _ := newModel(t, lister, &fakeUploader{})
	settle(m, m.Init())

	if !strings.Contains(m.View(), "Failed to load movie list.") {
		t.Errorf("View() = %q", m.View())
	}
	if _, ok := m.List(); ok {
		t.Error("List() should report failure")
	}

	press(m, "1")
	if !hasNote(m, "No movie at row 1") {
		t.Errorf("Notes() = %q", m.Notes())
	}
}

func TestModelSelectRowDoesNotPlay(t *testing.T) {
	m, ps := newModel(t, &fakeLister{body: "a.mp4\nx.mp4\n"}, &fakeUploader{})
	settle(m, m.Init())

	press(m, "n")
	press(m, "typed", "esc", "2")

	if m.Selection() != "x.mp4" {
		t.Errorf("Selection() = %q; want x.mp4", m.Selection())
	}
	if m.name.Value() != "x.mp4" {
		t.Errorf("name field = %q; want x.mp4", m.name.Value())
	}
	if len(ps.created) != 0 {
		t.Error("selecting a row must not start playback")
	}
	if !hasNote(m, "Selected: x.mp4") {
		t.Errorf("Notes() = %q", m.Notes())
	}
}

func TestModelActivateWithCursor(t *testing.T) {
	m, ps := newModel(t, &fakeLister{body: "a.mp4\nb.mp4\n"}, &fakeUploader{})
	settle(m, m.Init())

	press(m, "down", "enter")

	if m.Selection() != "b.mp4" {
		t.Errorf("Selection() = %q; want b.mp4", m.Selection())
	}
	if len(ps.created) != 0 {
		t.Error("selecting a row must not start playback")
	}
}

func TestModelPlay(t *testing.T) {
	m, ps := newModel(t, &fakeLister{body: "Inception\nTenet\n"}, &fakeUploader{})
	settle(m, m.Init())

	press(m, "p")
	if !hasNote(m, constants.PromptMessage) {
		t.Errorf("empty name should prompt; Notes() = %q", m.Notes())
	}
	if len(ps.created) != 0 {
		t.Fatal("no player should exist for an empty name")
	}

	press(m, "1", "p")
	press(m, "2", "p")

	if !hasNote(m, "Now playing: /media/Inception") || !hasNote(m, "Now playing: /media/Tenet") {
		t.Errorf("Notes() = %q", m.Notes())
	}
	if len(ps.created) != 2 {
		t.Fatalf("created %d players; want 2", len(ps.created))
	}
	if !ps.created[0].Closed() || ps.created[1].Closed() {
		t.Error("only the latest player should stay attached")
	}
	if !strings.Contains(m.View(), "Player: /media/Tenet") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelPlayTypedName(t *testing.T) {
	m, ps := newModel(t, &fakeLister{}, &fakeUploader{})
	settle(m, m.Init())

	press(m, "n")
	press(m, "  Tenet  ", "enter")

	if m.Selection() != "  Tenet  " {
		t.Errorf("Selection() = %q", m.Selection())
	}
	if len(ps.created) != 1 || ps.created[0].Source() != "/media/Tenet" {
		t.Errorf("players = %v", ps.created)
	}
}

func TestModelTypingQDoesNotQuit(t *testing.T) {
	m, _ := newModel(t, &fakeLister{}, &fakeUploader{})
	settle(m, m.Init())

	press(m, "n")
	press(m, "q")

	if m.Selection() != "q" {
		t.Errorf("Selection() = %q; want q", m.Selection())
	}
	if m.focus != paneName {
		t.Error("name field should keep focus")
	}
}

func TestModelUpload(t *testing.T) {
	uploader := &fakeUploader{msg: "File received"}
	m, _ := newModel(t, &fakeLister{}, uploader)
	settle(m, m.Init())

	press(m, "u")
	cmd := press(m, "my movie.mp4", "enter")
	if cmd == nil {
		t.Fatal("upload should run as a command")
	}
	if !hasNote(m, "Uploading my movie.mp4") {
		t.Errorf("Notes() = %q", m.Notes())
	}

	settle(m, cmd)

	if !hasNote(m, "[+] Upload successful: File received") {
		t.Errorf("Notes() = %q", m.Notes())
	}
	if len(uploader.files) != 1 || uploader.files[0] != "my movie.mp4" {
		t.Errorf("uploaded %q", uploader.files)
	}
	if m.focus != paneList {
		t.Error("focus should return to the list")
	}
}

func TestModelUploadErrors(t *testing.T) {
	tests := []struct {
		path string
		err  error
		want string
	}{
		{"", nil, "No file selected."},
		{"missing.mp4", nil, "[-] Error opening file: no such file"},
		{
			"huge.mkv",
			&constants.ServerRejectedError{StatusCode: 413, Status: "Request Entity Too Large", Body: "file too large"},
			"[-] Upload failed: 413 Request Entity Too Large\nfile too large",
		},
		{
			"a.mp4",
			&constants.TransportError{Op: "upload", Err: errors.New("dial tcp: connection refused")},
			"[-] Error uploading file: upload: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		uploader := &fakeUploader{err: tt.err}
		m, _ := newModel(t, &fakeLister{}, uploader)
		settle(m, m.Init())

		press(m, "u")
		if tt.path != "" {
			press(m, tt.path)
		}
		settle(m, press(m, "enter"))

		if !hasNote(m, tt.want) {
			t.Errorf("%q: Notes() = %q; want %q", tt.path, m.Notes(), tt.want)
		}
	}
}

func TestModelRefresh(t *testing.T) {
	lister := &fakeLister{body: "a.mp4\n"}
	m, _ := newModel(t, lister, &fakeUploader{})
	settle(m, m.Init())

	lister.body = "a.mp4\nb.mp4\n"
	settle(m, press(m, "r"))

	if lister.calls != 2 {
		t.Errorf("list fetched %d times; want 2", lister.calls)
	}
	if list, ok := m.List(); !ok || len(list) != 2 {
		t.Errorf("List() = %v, %v", list, ok)
	}
}

func TestModelDropsStaleList(t *testing.T) {
	lister := &fakeLister{body: "old.mp4"}
	m, _ := newModel(t, lister, &fakeUploader{})

	older := m.Init()
	newer := press(m, "r")

	oldMsg := older()
	lister.body = "new.mp4"
	newMsg := newer()

	m.Update(newMsg)
	m.Update(oldMsg)
	m.Update(listMsg{gen: oldMsg.(listMsg).gen, err: errors.New("late failure")})

	list, ok := m.List()
	if !ok || len(list) != 1 || list[0].DisplayName != "new.mp4" {
		t.Errorf("List() = %v, %v; want [new.mp4]", list, ok)
	}
	if hasNote(m, "Failed") {
		t.Errorf("stale failure was rendered: %q", m.Notes())
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newModel(t, &fakeLister{}, &fakeUploader{})
	settle(m, m.Init())

	if !isQuit(press(m, "q")) {
		t.Error("q should quit when nothing is in flight")
	}
	if !isQuit(press(m, "ctrl+c")) {
		t.Error("ctrl+c should quit")
	}
}

func TestModelQuitWaitsForUploads(t *testing.T) {
	m, _ := newModel(t, &fakeLister{}, &fakeUploader{msg: "ok"})
	settle(m, m.Init())

	press(m, "u")
	upload := press(m, "a.mp4", "enter")

	if cmd := press(m, "q"); cmd != nil {
		t.Fatal("quit should wait for the upload")
	}
	if !hasNote(m, "Waiting for 1 upload(s) to finish") {
		t.Errorf("Notes() = %q", m.Notes())
	}

	if !isQuit(settle(m, upload)) {
		t.Error("session should end once the upload settles")
	}
	if !hasNote(m, "[+] Upload successful: ok") {
		t.Errorf("Notes() = %q", m.Notes())
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := RenderList(models.MediaList{})
	if got != "Available Movies:\n  (none)\n" {
		t.Errorf("RenderList(empty) = %q", got)
	}
}

func TestUploadMessage(t *testing.T) {
	tests := []struct {
		msg      string
		err      error
		expected string
	}{
		{"ok", nil, "[+] Upload successful: ok"},
		{"", constants.ErrNoFileSelected, "No file selected."},
		{"", &constants.ServerRejectedError{StatusCode: 500, Status: "Internal Server Error", Body: "disk full"}, "[-] Upload failed: 500 Internal Server Error\ndisk full"},
		{"", errors.New("timeout"), "[-] Error uploading file: timeout"},
	}

	for _, tt := range tests {
		if got := UploadMessage(tt.msg, tt.err); got != tt.expected {
			t.Errorf("UploadMessage(%q, %v) = %q; want %q", tt.msg, tt.err, got, tt.expected)
		}
	}
}
