// Package tui is the terminal front end of the site editor. It renders the
// live content, hosts the login dialog and the edit form, and runs every
// network call as a bubbletea command.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/hairbystephanie/site/backend/go-services/internal/editor"
)

// State identifies the active screen.
type State int

const (
	StateLoading State = iota
	StateViewing
	StateLogin
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateLogin:
		return "login"
	case StateEditing:
		return "editing"
	}
	return "loading"
}

// field binds one edit-form input to a part of the working document.
type field struct {
	label       string
	key         string
	service     int
	description bool
}

func (f field) apply(app *editor.App, value string) error {
	if f.key != "" {
		return app.SetField(f.key, value)
	}
	if f.description {
		return app.SetServiceDescription(f.service, value)
	}
	return app.SetServiceName(f.service, value)
}

var fieldLabels = map[string]string{
	content.KeyHeroTitle:        "Hero title",
	content.KeyHeroSubtitle:     "Hero subtitle",
	content.KeyHeroDescription:  "Hero description",
	content.KeyAboutTitle:       "About title",
	content.KeyAboutDescription: "About description",
}

func fieldsFor(doc *content.Document) []field {
	out := make([]field, 0, len(content.FieldKeys)+2*len(doc.Services))
	for _, k := range content.FieldKeys {
		out = append(out, field{label: fieldLabels[k], key: k})
	}
	for i := range doc.Services {
		out = append(out,
			field{label: fmt.Sprintf("Service %d name", i+1), service: i},
			field{label: fmt.Sprintf("Service %d description", i+1), service: i, description: true},
		)
	}
	return out
}

func (f field) value(doc *content.Document) string {
	if f.key != "" {
		v, _ := doc.Field(f.key)
		return v
	}
	if f.description {
		return doc.Services[f.service].Description
	}
	return doc.Services[f.service].Name
}

// Model is the root bubbletea model.
type Model struct {
	app    *editor.App
	ctx    context.Context
	styles *Styles
	keys   *KeyMap

	state   State
	spinner spinner.Model
	busy    bool
	loadErr error

	// notice is the last user-facing message; noticeErr selects its style.
	notice    string
	noticeErr bool

	username   textinput.Model
	password   textinput.Model
	loginFocus int

	fields []field
	inputs []textinput.Model
	focus  int

	width int
}

var _ tea.Model = (*Model)(nil)

// New creates the model. The app must not have been loaded yet; Init
// fetches the content.
func New(app *editor.App) *Model {
	s := DefaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Title))

	m := &Model{
		app:     app,
		ctx:     context.Background(),
		styles:  s,
		keys:    DefaultKeyMap(),
		spinner: sp,
		width:   80,
	}
	m.username = newInput("username")
	m.password = newInput("password")
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	return m
}

// WithContext sets the context network commands run under.
func (m *Model) WithContext(ctx context.Context) *Model {
	m.ctx = ctx
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Width = 50
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// State returns the active screen.
func (m *Model) State() State { return m.state }

// Notice returns the last message shown to the user.
func (m *Model) Notice() string { return m.notice }

// Busy reports whether a login or save is in flight.
func (m *Model) Busy() bool { return m.busy }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Model) load() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return contentLoaded{Err: app.Load(ctx)}
	}
}

func (m *Model) login(username, password string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return loginDone{Err: app.Login(ctx, username, password)}
	}
}

func (m *Model) save() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return saveDone{Err: app.Save(ctx)}
	}
}

func (m *Model) setNotice(msg string, isErr bool) {
	m.notice = msg
	m.noticeErr = isErr
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resizeInputs()
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case contentLoaded:
		if msg.Err != nil {
			// No retry: the loading screen stays up.
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.state = StateViewing
		return m, nil

	case loginDone:
		m.busy = false
		m.password.Reset()
		if msg.Err != nil {
			m.setNotice(editor.LoginMessage(msg.Err), true)
			return m, nil
		}
		m.username.Reset()
		m.state = StateViewing
		m.setNotice("Logged in", false)
		return m, nil

	case saveDone:
		m.busy = false
		if msg.Err != nil {
			m.setNotice(editor.MsgSaveFailed, true)
			return m, nil
		}
		m.state = StateViewing
		m.setNotice(editor.MsgSaved, false)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.state {
		case StateLoading:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
		case StateViewing:
			return m.updateViewing(msg)
		case StateLogin:
			return m.updateLogin(msg)
		case StateEditing:
			return m.updateEditing(msg)
		}
	}
	return m, nil
}

func (m *Model) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Login):
		if m.app.Authenticated() {
			m.setNotice("Already logged in", false)
			return m, nil
		}
		m.state = StateLogin
		m.notice = ""
		m.loginFocus = 0
		m.password.Blur()
		return m, m.username.Focus()
	case key.Matches(msg, m.keys.Logout):
		if m.app.Authenticated() {
			m.app.Logout()
			m.setNotice("Logged out", false)
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if err := m.app.EnterEdit(); err != nil {
			m.setNotice("Log in to edit", true)
			return m, nil
		}
		m.notice = ""
		m.buildForm()
		m.state = StateEditing
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.username.Reset()
		m.password.Reset()
		m.state = StateViewing
		return m, nil
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		return m, m.focusLogin(1 - m.loginFocus)
	case key.Matches(msg, m.keys.Submit):
		if m.loginFocus == 0 {
			return m, m.focusLogin(1)
		}
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.login(m.username.Value(), m.password.Value()), m.spinner.Tick)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusLogin(i int) tea.Cmd {
	m.loginFocus = i
	if i == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.app.Editing() {
		// Session ended underneath the form.
		m.state = StateViewing
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.app.ExitEdit()
		m.state = StateViewing
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.save(), m.spinner.Tick)
	case key.Matches(msg, m.keys.Discard):
		m.app.DiscardChanges()
		m.buildForm()
		m.setNotice("Changes discarded", false)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.focusField(m.focus - 1)
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if v := m.inputs[m.focus].Value(); v != before {
		if err := m.fields[m.focus].apply(m.app, v); err != nil {
			m.setNotice(err.Error(), true)
		}
	}
	return m, cmd
}

// buildForm fills the edit form from the working copy.
func (m *Model) buildForm() {
	doc := m.app.Working()
	if doc == nil {
		m.fields, m.inputs = nil, nil
		return
	}
	m.fields = fieldsFor(doc)
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		in := newInput(f.label)
		in.SetValue(f.value(doc))
		m.inputs[i] = in
	}
	m.focus = 0
	m.resizeInputs()
	m.focusField(0)
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.inputs)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) resizeInputs() {
	w := m.width - 28
	if w < 20 {
		w = 20
	}
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
	m.username.Width = w
	m.password.Width = w
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " Loading content...\n")
		if m.loadErr != nil {
			b.WriteString(m.styles.Muted.Render(m.loadErr.Error()) + "\n")
		}
		b.WriteString(m.styles.Help.Render(helpLine(m.keys.Quit)))
		return b.String()
	case StateViewing:
		b.WriteString(m.viewContent())
		if m.app.Authenticated() {
			b.WriteString(m.styles.Help.Render(helpLine(m.keys.Edit, m.keys.Logout, m.keys.Quit)))
		} else {
			b.WriteString(m.styles.Help.Render(helpLine(m.keys.Login, m.keys.Quit)))
		}
	case StateLogin:
		b.WriteString(m.viewLogin())
	case StateEditing:
		b.WriteString(m.viewForm())
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Working...")
	}
	if m.notice != "" {
		style := m.styles.Success
		if m.noticeErr {
			style = m.styles.Error
		}
		b.WriteString("\n" + style.Render(m.notice))
	}
	return b.String()
}

func (m *Model) viewContent() string {
	doc := m.app.Live()
	if doc == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(doc.HeroTitle) + "\n")
	b.WriteString(m.styles.Subtitle.Render(doc.HeroSubtitle) + "\n")
	b.WriteString(m.styles.Normal.Render(doc.HeroDescription) + "\n\n")
	b.WriteString(m.styles.Title.Render(doc.AboutTitle) + "\n")
	b.WriteString(m.styles.Normal.Render(doc.AboutDescription) + "\n\n")
	b.WriteString(m.styles.Title.Render("Services") + "\n")
	for _, s := range doc.Services {
		b.WriteString("  " + m.styles.Subtitle.Render(s.Name) + "\n")
		b.WriteString("  " + m.styles.Muted.Render(s.Description) + "\n")
	}
	return b.String()
}

func (m *Model) viewLogin() string {
	label := func(i int, s string) string {
		if m.loginFocus == i {
			return m.styles.Focused.Render(s)
		}
		return m.styles.Label.Render(s)
	}
	body := m.styles.Title.Render("Admin login") + "\n\n" +
		label(0, "Username") + m.username.View() + "\n" +
		label(1, "Password") + m.password.View()
	return m.styles.Dialog.Render(body) + "\n" +
		m.styles.Help.Render(helpLine(m.keys.Next, m.keys.Submit, m.keys.Back))
}

func (m *Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Editing content") + "\n\n")
	for i, f := range m.fields {
		style := m.styles.Label
		if i == m.focus {
			style = m.styles.Focused
		}
		b.WriteString(style.Render(f.label) + m.inputs[i].View() + "\n")
	}
	b.WriteString(m.styles.Help.Render(helpLine(m.keys.Next, m.keys.Prev, m.keys.Save, m.keys.Discard, m.keys.Back)))
	return b.String()
}
