package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"geomoments/internal/ui/theme"
)

// CheckInSubmitMsg carries a completed check-in form.
type CheckInSubmitMsg struct {
	ImagePaths []string
	Caption    string
	Lat        float64
	Lng        float64
}

type CheckInCancelMsg struct{}

const (
	fieldImages = iota
	fieldCaption
	fieldCount
)

// CheckInForm collects images and a caption for the selected map position.
type CheckInForm struct {
	fields  [fieldCount]textinput.Model
	focus   int
	visible bool
	lat     float64
	lng     float64
	err     string
	width   int
}

func NewCheckInForm() CheckInForm {
	images := textinput.New()
	images.Placeholder = "~/photos/a.jpg, ~/photos/b.png"
	images.Prompt = "images  "
	images.CharLimit = 1024

	caption := textinput.New()
	caption.Placeholder = "what's happening here?"
	caption.Prompt = "caption "
	caption.CharLimit = 280

	return CheckInForm{fields: [fieldCount]textinput.Model{images, caption}}
}

func (f CheckInForm) Visible() bool { return f.visible }

func (f *CheckInForm) SetWidth(w int) { f.width = w }

// Open resets the form for a check-in at lat, lng.
func (f *CheckInForm) Open(lat, lng float64) tea.Cmd {
	f.visible = true
	f.lat, f.lng = lat, lng
	f.err = ""
	f.focus = fieldImages
	for i := range f.fields {
		f.fields[i].SetValue("")
		f.fields[i].Blur()
	}
	return f.fields[fieldImages].Focus()
}

func (f *CheckInForm) Close() {
	f.visible = false
	for i := range f.fields {
		f.fields[i].Blur()
	}
}

func (f *CheckInForm) move(delta int) tea.Cmd {
	f.fields[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.fields[f.focus].Focus()
}

// SplitPaths splits a comma separated list of paths, dropping blanks.
func SplitPaths(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f CheckInForm) Update(msg tea.Msg) (CheckInForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			f.Close()
			return f, func() tea.Msg { return CheckInCancelMsg{} }
		case "tab", "down":
			return f, f.move(1)
		case "shift+tab", "up":
			return f, f.move(-1)
		case "enter":
			if f.focus != fieldCaption {
				return f, f.move(1)
			}
			paths := SplitPaths(f.fields[fieldImages].Value())
			if len(paths) == 0 {
				f.err = "at least one image is required"
				f.focus = fieldCaption
				return f, f.move(1)
			}
			submit := CheckInSubmitMsg{
				ImagePaths: paths,
				Caption:    strings.TrimSpace(f.fields[fieldCaption].Value()),
				Lat:        f.lat,
				Lng:        f.lng,
			}
			f.Close()
			return f, func() tea.Msg { return submit }
		}
	}
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return f, cmd
}

func (f CheckInForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New check-in") + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("at %.5f, %.5f", f.lat, f.lng)) + "\n\n")
	for _, field := range f.fields {
		sb.WriteString(field.View() + "\n")
	}
	if f.err != "" {
		sb.WriteString("\n" + theme.Bad.Render(f.err) + "\n")
	}
	sb.WriteString("\n" + hintStyle.Render("tab: next field  enter: post  esc: cancel"))

	w := f.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
