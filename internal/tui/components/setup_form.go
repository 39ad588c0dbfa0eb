package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jharlow/reel/internal/service"
	"github.com/jharlow/reel/internal/tui/styles"
)

// SetupMode selects which onboarding form is shown.
type SetupMode int

const (
	SetupChecking SetupMode = iota
	SetupLogin
	SetupCode
	SetupAccount
	SetupOffline
)

// SetupForm drives onboarding: login for existing servers, or the
// setup-code plus first-account flow for a fresh one.
type SetupForm struct {
	mode   SetupMode
	inputs []textinput.Model
	focus  int
	code   string
	errMsg string
	busy   bool
	width  int
}

// NewSetupForm creates the onboarding form in the checking state
func NewSetupForm() SetupForm {
	return SetupForm{mode: SetupChecking}
}

// SetSize updates the form's render width
func (f *SetupForm) SetSize(width int) { f.width = width }

// Mode returns the current onboarding mode
func (f SetupForm) Mode() SetupMode { return f.mode }

// Busy reports whether a request is in flight
func (f SetupForm) Busy() bool { return f.busy }

// SetBusy toggles the in-flight indicator
func (f *SetupForm) SetBusy(busy bool) { f.busy = busy }

// SetError shows a validation or server error under the form
func (f *SetupForm) SetError(msg string) {
	f.errMsg = msg
	f.busy = false
}

// SetMode switches the form and rebuilds its inputs
func (f *SetupForm) SetMode(mode SetupMode) {
	if f.mode == mode {
		return
	}
	f.mode = mode
	f.errMsg = ""
	f.busy = false
	f.focus = 0

	switch mode {
	case SetupLogin:
		f.inputs = []textinput.Model{
			newField("Username", false),
			newField("Password", true),
		}
	case SetupCode:
		code := newField("6-digit setup code", false)
		code.CharLimit = 6
		f.inputs = []textinput.Model{code}
	case SetupAccount:
		f.inputs = []textinput.Model{
			newField("Username", false),
			newField("Password", true),
			newField("Confirm password", true),
		}
	default:
		f.inputs = nil
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

func newField(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 32
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// NextField moves focus to the next input
func (f *SetupForm) NextField() {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Values returns the trimmed input values in field order
func (f SetupForm) Values() []string {
	vals := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		vals[i] = strings.TrimSpace(in.Value())
	}
	return vals
}

// Code returns the setup code captured in the code step
func (f SetupForm) Code() string { return f.code }

// AdvanceToAccount validates the setup code and moves to account creation
func (f *SetupForm) AdvanceToAccount() bool {
	code := f.Values()[0]
	if !service.ValidSetupCode(code) {
		f.SetError("Enter the 6-digit code shown in the server logs")
		return false
	}
	f.code = code
	f.mode = SetupAccount
	f.errMsg = ""
	f.focus = 0
	f.inputs = []textinput.Model{
		newField("Username", false),
		newField("Password", true),
		newField("Confirm password", true),
	}
	f.inputs[0].Focus()
	return true
}

// UpdateInputs forwards a message to the focused input
func (f *SetupForm) UpdateInputs(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders the onboarding form
func (f SetupForm) View() string {
	var b strings.Builder

	switch f.mode {
	case SetupChecking:
		b.WriteString(styles.DimStyle.Render("Contacting server…"))
	case SetupOffline:
		b.WriteString(styles.ErrorStyle.Render("Server unreachable"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Retrying…"))
	case SetupLogin:
		b.WriteString(styles.TitleStyle.Render("Sign in"))
		f.renderInputs(&b)
	case SetupCode:
		b.WriteString(styles.TitleStyle.Render("Set up your server"))
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render("Enter the setup code from the server logs"))
		f.renderInputs(&b)
	case SetupAccount:
		b.WriteString(styles.TitleStyle.Render("Create the first account"))
		f.renderInputs(&b)
	}

	if f.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorStyle.Render(f.errMsg))
	}
	if f.busy {
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("Working…"))
	}

	return styles.OverlayStyle.Render(b.String())
}

func (f SetupForm) renderInputs(b *strings.Builder) {
	for _, in := range f.inputs {
		b.WriteString("\n\n")
		b.WriteString(in.View())
	}
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("tab: next field · enter: submit"))
}
