// Package term binds the upload client and media browser to an interactive
// terminal view. It owns the presentation state: the rendered movie list,
// the movie name field and the playback surface.
package term

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/homeserver/media"
	"github.com/NobleNomadic/HomeServer/internal/models"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Uploader interface {
	Upload(file *models.SelectedFile) (string, error)
}

type Lister interface {
	FetchList() (models.MediaList, error)
}

// OpenFunc turns a path typed by the user into a selected file.
type OpenFunc func(path string) (*models.SelectedFile, error)

const helpText = "enter/1-9 select · p play · n name · u upload · r refresh · q quit"

// maxNotes is how many status lines stay on screen.
const maxNotes = 6

type pane int

const (
	paneList pane = iota
	paneName
	paneUpload
)

// listMsg carries a finished listing fetch. gen identifies the fetch so
// results of superseded refreshes can be told apart.
type listMsg struct {
	gen  uint64
	list models.MediaList
	err  error
}

type uploadMsg struct {
	name  string
	reply string
	err   error
}

// Model is the bubbletea model of the browse view.
type Model struct {
	uploader Uploader
	lister   Lister
	surface  *media.Surface
	open     OpenFunc

	rows  list.Model
	name  textinput.Model
	path  textinput.Model
	focus pane

	list      models.MediaList
	loaded    bool
	listOK    bool
	listGen   uint64
	selection models.PlaybackSelection

	uploads  int
	quitting bool
	notes    []string

	titleStyle lipgloss.Style
	noteStyle  lipgloss.Style
}

func New(uploader Uploader, lister Lister, surface *media.Surface) *Model {
	rows := list.New(nil, rowDelegate{}, 60, 12)
	rows.Title = "Available Movies"
	rows.SetShowStatusBar(false)
	rows.SetFilteringEnabled(false)
	rows.SetShowHelp(false)

	name := textinput.New()
	name.Prompt = "Movie name: "
	name.Placeholder = "type a name or pick a row"

	path := textinput.New()
	path.Prompt = "Upload file: "
	path.Placeholder = "path to a local file"

	return &Model{
		uploader:   uploader,
		lister:     lister,
		surface:    surface,
		open:       models.OpenSelectedFile,
		rows:       rows,
		name:       name,
		path:       path,
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		noteStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// SetOpener replaces how upload paths are opened.
func (m *Model) SetOpener(open OpenFunc) {
	m.open = open
}

// Init loads the movie list once.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 8
		if h < 3 {
			h = 3
		}
		m.rows.SetSize(msg.Width, h)
		return m, nil
	case listMsg:
		return m, m.applyList(msg)
	case uploadMsg:
		return m, m.finishUpload(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case paneName:
			return m, m.updateName(msg)
		case paneUpload:
			return m, m.updateUpload(msg)
		default:
			return m, m.updateList(msg)
		}
	}

	// cursor blinks and the like go to the focused input
	var cmd tea.Cmd
	switch m.focus {
	case paneName:
		m.name, cmd = m.name.Update(msg)
	case paneUpload:
		m.path, cmd = m.path.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateList(key tea.KeyMsg) tea.Cmd {
	switch s := key.String(); s {
	case "q", "esc":
		return m.quit()
	case "enter":
		m.activate(m.rows.Index() + 1)
		return nil
	case "p":
		return m.play()
	case "r":
		return m.refresh()
	case "n", "tab":
		m.focus = paneName
		return m.name.Focus()
	case "u":
		m.focus = paneUpload
		return m.path.Focus()
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.activate(int(s[0] - '0'))
			return nil
		}
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(key)
	return cmd
}

func (m *Model) updateName(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "enter":
		m.name.Blur()
		m.focus = paneList
		return m.play()
	case "esc", "tab":
		m.name.Blur()
		m.focus = paneList
		return nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(key)
	m.selection.Set(m.name.Value())
	return cmd
}

func (m *Model) updateUpload(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		m.path.SetValue("")
		m.path.Blur()
		m.focus = paneList
		return m.upload(path)
	case "esc":
		m.path.SetValue("")
		m.path.Blur()
		m.focus = paneList
		return nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(key)
	return cmd
}

// activate copies the name at row into the name field. It never plays.
func (m *Model) activate(row int) {
	if !media.Select(m.list, row, &m.selection) {
		m.note(fmt.Sprintf("No movie at row %d", row))
		return
	}
	m.rows.Select(row - 1)
	m.name.SetValue(m.selection.Name)
	m.note("Selected: " + m.selection.Name)
}

func (m *Model) play() tea.Cmd {
	err := m.surface.LoadMovie(m.selection.Name)
	switch {
	case errors.Is(err, constants.ErrEmptyPlaybackName):
		m.note(m.surface.Message())
	case err != nil:
		slog.Error("Fail to start player", "name", m.selection.Value(), "error", err)
		m.note(fmt.Sprintf("[-] Error starting player: %v", err))
	default:
		m.note("Now playing: " + m.surface.Current().Source())
	}
	return nil
}

func (m *Model) refresh() tea.Cmd {
	m.listGen++
	gen := m.listGen
	lister := m.lister

	return func() tea.Msg {
		list, err := lister.FetchList()
		return listMsg{gen: gen, list: list, err: err}
	}
}

// applyList renders a listing result unless a newer fetch has started since.
func (m *Model) applyList(msg listMsg) tea.Cmd {
	if msg.gen != m.listGen {
		slog.Debug("Drop stale movie list", "generation", msg.gen, "error", msg.err)
		return nil
	}

	m.loaded = true
	if msg.err != nil {
		slog.Error("Fail to load movie list", "error", msg.err)
		m.list = nil
		m.listOK = false
		m.note("Failed to load movie list.")
		return m.rows.SetItems(nil)
	}

	m.list = msg.list
	m.listOK = true

	items := make([]list.Item, 0, len(msg.list))
	for _, e := range msg.list {
		items = append(items, movieItem{e})
	}
	return m.rows.SetItems(items)
}

func (m *Model) upload(path string) tea.Cmd {
	if path == "" {
		_, err := m.uploader.Upload(nil)
		m.note(UploadMessage("", err))
		return nil
	}

	file, err := m.open(path)
	if err != nil {
		slog.Error("Fail to open file", "file", path, "error", err)
		m.note(fmt.Sprintf("[-] Error opening file: %v", err))
		return nil
	}

	m.uploads++
	m.note("Uploading " + file.Name + "...")

	uploader := m.uploader
	return func() tea.Msg {
		reply, err := uploader.Upload(file)
		return uploadMsg{name: file.Name, reply: reply, err: err}
	}
}

func (m *Model) finishUpload(msg uploadMsg) tea.Cmd {
	m.uploads--
	if msg.err != nil {
		slog.Error("Fail to upload", "file", msg.name, "error", msg.err)
	}
	m.note(UploadMessage(msg.reply, msg.err))

	if m.quitting && m.uploads == 0 {
		return tea.Quit
	}
	return nil
}

// quit leaves once in-flight uploads have settled.
func (m *Model) quit() tea.Cmd {
	if m.uploads > 0 {
		m.quitting = true
		m.note(fmt.Sprintf("Waiting for %d upload(s) to finish", m.uploads))
		return nil
	}
	return tea.Quit
}

func (m *Model) note(s string) {
	m.notes = append(m.notes, s)
	if len(m.notes) > maxNotes {
		m.notes = m.notes[len(m.notes)-maxNotes:]
	}
}

func (m *Model) View() string {
	var b strings.Builder

	switch {
	case !m.loaded:
		b.WriteString(m.titleStyle.Render("Available Movies") + "\n  Loading...\n")
	case !m.listOK:
		b.WriteString(m.titleStyle.Render("Available Movies") + "\n  Failed to load movie list.\n")
	case len(m.list) == 0:
		b.WriteString(m.titleStyle.Render("Available Movies") + "\n  (none)\n")
	default:
		b.WriteString(m.rows.View() + "\n")
	}

	b.WriteString("\n" + m.name.View() + "\n")
	if m.focus == paneUpload {
		b.WriteString(m.path.View() + "\n")
	}

	switch m.surface.State() {
	case media.StatePlaying:
		b.WriteString("Player: " + m.surface.Current().Source() + "\n")
	case media.StatePrompting:
		b.WriteString("Player: " + m.surface.Message() + "\n")
	default:
		b.WriteString("Player: empty\n")
	}

	if len(m.notes) > 0 {
		b.WriteString("\n" + m.noteStyle.Render(strings.Join(m.notes, "\n")) + "\n")
	}
	b.WriteString("\n" + helpText + "\n")
	return b.String()
}

// Selection returns the current value of the movie name field.
func (m *Model) Selection() string {
	return m.selection.Name
}

// List returns the rendered list and whether the last applied fetch succeeded.
func (m *Model) List() (models.MediaList, bool) {
	return m.list, m.listOK
}

// Notes returns the status lines on screen, oldest first.
func (m *Model) Notes() []string {
	return append([]string(nil), m.notes...)
}

type movieItem struct {
	models.MediaEntry
}

func (i movieItem) FilterValue() string { return i.DisplayName }

// rowDelegate renders one numbered row per entry.
type rowDelegate struct{}

func (rowDelegate) Height() int                         { return 1 }
func (rowDelegate) Spacing() int                        { return 0 }
func (rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(movieItem)
	if !ok {
		return
	}
	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}
	fmt.Fprintf(w, "%s%d) %s", cursor, index+1, it.DisplayName)
}

// RenderList formats the list as numbered rows in server order.
func RenderList(list models.MediaList) string {
	var b strings.Builder
	b.WriteString("Available Movies:\n")
	if len(list) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, e := range list {
		fmt.Fprintf(&b, "  %d) %s\n", i+1, e.DisplayName)
	}
	return b.String()
}

// UploadMessage is the text shown to the user once an upload settles.
func UploadMessage(msg string, err error) string {
	var rejected *constants.ServerRejectedError
	switch {
	case err == nil:
		return "[+] Upload successful: " + msg
	case errors.Is(err, constants.ErrNoFileSelected):
		return "No file selected."
	case errors.As(err, &rejected):
		return fmt.Sprintf("[-] Upload failed: %d %s\n%s", rejected.StatusCode, rejected.Status, rejected.Body)
	default:
		return "[-] Error uploading file: " + err.Error()
	}
}
