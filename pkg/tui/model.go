// Package tui is the interactive form for building a provisioning script.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/clipboard"
	"github.com/vidinfra/tenbyte-userdata/pkg/compiler"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// Field identifies a form field.
type Field int

const (
	FieldUsername Field = iota
	FieldPassword
	FieldWebServer
	FieldDatabase
	FieldNodejs
	FieldYarn
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldPassword:
		return "Password"
	case FieldWebServer:
		return "Web server"
	case FieldDatabase:
		return "Database"
	case FieldNodejs:
		return "Node.js"
	case FieldYarn:
		return "Yarn"
	default:
		return "Unknown"
	}
}

// copyResultMsg reports the outcome of a clipboard copy.
type copyResultMsg struct {
	ok bool
}

// copyExpiredMsg ends the "Copied!" label for the copy numbered gen.
type copyExpiredMsg struct {
	gen int
}

// Model is the form state. Every change produces a new config.Record and
// a freshly compiled preview.
type Model struct {
	ctx      context.Context
	keys     KeyMap
	compiler *compiler.Compiler
	copier   *clipboard.Copier

	record   config.Record
	username textinput.Model
	password textinput.Model
	focus    Field

	preview string
	err     error

	copied  bool
	copyGen int

	width    int
	height   int
	quitting bool
}

// NewModel creates a form seeded with r.
func NewModel(ctx context.Context, r config.Record, copier *clipboard.Copier) Model {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "optional"
	username.SetValue(r.Username)
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "optional"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.SetValue(r.Password)

	m := Model{
		ctx:      ctx,
		keys:     DefaultKeyMap,
		compiler: compiler.New(),
		copier:   copier,
		record:   r,
		username: username,
		password: password,
		focus:    FieldUsername,
		width:    80,
		height:   24,
	}
	m.recompile()
	return m
}

// Record returns the current record.
func (m Model) Record() config.Record {
	return m.record
}

// Preview returns the compiled script for the current record.
func (m Model) Preview() string {
	return m.preview
}

// Focus returns the focused field.
func (m Model) Focus() Field {
	return m.focus
}

// Copied reports whether the copy acknowledgment is showing.
func (m Model) Copied() bool {
	return m.copied
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case copyResultMsg:
		if !msg.ok {
			return m, nil
		}
		m.copied = true
		m.copyGen++
		gen := m.copyGen
		return m, tea.Tick(m.copyWindow(), func(time.Time) tea.Msg {
			return copyExpiredMsg{gen: gen}
		})

	case copyExpiredMsg:
		if msg.gen == m.copyGen {
			m.copied = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	}

	switch m.focus {
	case FieldWebServer, FieldDatabase:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cycle(-1)
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
			m.cycle(1)
		}
		return m, nil

	case FieldNodejs, FieldYarn:
		if key.Matches(msg, m.keys.Toggle) {
			m.toggle()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused text input and recompiles.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldUsername:
		m.username, cmd = m.username.Update(msg)
		m.record = m.record.WithUsername(m.username.Value())
	case FieldPassword:
		m.password, cmd = m.password.Update(msg)
		m.record = m.record.WithPassword(m.password.Value())
	default:
		return m, nil
	}
	m.recompile()
	return m, cmd
}

// visibleFields lists the fields shown for the current record. Yarn is
// only offered with the MERN stack.
func (m Model) visibleFields() []Field {
	fields := make([]Field, 0, fieldCount)
	for f := FieldUsername; f < fieldCount; f++ {
		if f == FieldYarn && !m.record.YarnApplies() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.focus = fields[idx]

	m.username.Blur()
	m.password.Blur()
	var cmd tea.Cmd
	switch m.focus {
	case FieldUsername:
		cmd = m.username.Focus()
	case FieldPassword:
		cmd = m.password.Focus()
	}
	return m, cmd
}

func (m *Model) cycle(delta int) {
	category := catalog.CategoryWebServer
	current := m.record.WebServer
	if m.focus == FieldDatabase {
		category = catalog.CategoryDatabase
		current = m.record.Database
	}

	options := catalog.List(category)
	idx := catalog.Index(category, current)
	if idx < 0 {
		idx = 0
	}
	next := options[(idx+delta+len(options))%len(options)].Value

	if category == catalog.CategoryWebServer {
		m.record = m.record.WithWebServer(next)
	} else {
		m.record = m.record.WithDatabase(next)
	}
	m.recompile()
}

func (m *Model) toggle() {
	switch m.focus {
	case FieldNodejs:
		m.record = m.record.WithNodejs(!m.record.InstallNodejs)
	case FieldYarn:
		m.record = m.record.WithYarn(!m.record.InstallYarn)
	}
	m.recompile()
}

func (m *Model) recompile() {
	m.preview, m.err = m.compiler.Compile(m.record)
}

func (m Model) copyWindow() time.Duration {
	if m.copier == nil {
		return clipboard.DefaultWindow
	}
	return m.copier.Window()
}

// copyCmd copies a snapshot of the preview. The command only sees the
// string, never the model.
func (m Model) copyCmd() tea.Cmd {
	if m.copier == nil || m.err != nil {
		return nil
	}
	ctx, copier, text := m.ctx, m.copier, m.preview
	return func() tea.Msg {
		return copyResultMsg{ok: copier.CopyNow(ctx, text)}
	}
}
