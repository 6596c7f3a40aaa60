package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
)

// Create-project modal. Five fields plus an optional template picker; the
// template fills empty fields with its suggestions but never overwrites
// typed text.

const (
	formFieldName = iota
	formFieldGenre
	formFieldStyle
	formFieldTarget
	formFieldTaboos
	formFieldCount
)

var formLabels = [formFieldCount]string{"Name", "Genre", "Style", "Target", "Taboos"}

type createForm struct {
	inputs [formFieldCount]textinput.Model
	focus  int

	// templateIdx indexes the fetched templates; -1 means none.
	templateIdx int

	errText string
	busy    bool
}

func newCreateForm() createForm {
	f := createForm{templateIdx: -1}
	placeholders := [formFieldCount]string{
		"My next novel",
		"fantasy",
		"third-person",
		fmt.Sprintf("%d", state.DefaultTargetLength),
		"comma, separated, taboos",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[formFieldName].CharLimit = 120
	f.inputs[formFieldTarget].CharLimit = 12
	f.inputs[f.focus].Focus()
	return f
}

func (f *createForm) setFocus(i int) tea.Cmd {
	if i < 0 {
		i = formFieldCount - 1
	}
	if i >= formFieldCount {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

// cycleTemplate walks none -> t0 -> t1 -> ... -> none and applies the
// selected template's suggestions to untouched fields.
func (f *createForm) cycleTemplate(templates []model.StoryTemplate) {
	if len(templates) == 0 {
		return
	}
	f.templateIdx++
	if f.templateIdx >= len(templates) {
		f.templateIdx = -1
		return
	}
	t := templates[f.templateIdx]
	if strings.TrimSpace(f.inputs[formFieldGenre].Value()) == "" && t.GenreSuggestion != "" {
		f.inputs[formFieldGenre].SetValue(t.GenreSuggestion)
	}
	if strings.TrimSpace(f.inputs[formFieldStyle].Value()) == "" && t.StyleSuggestion != "" {
		f.inputs[formFieldStyle].SetValue(t.StyleSuggestion)
	}
	if strings.TrimSpace(f.inputs[formFieldTaboos].Value()) == "" && len(t.DefaultTaboos) > 0 {
		f.inputs[formFieldTaboos].SetValue(strings.Join(t.DefaultTaboos, ", "))
	}
	if t.Recommended.TargetLength > 0 {
		// Leave the value empty so the backend resolves the template's
		// recommendation; show it as a hint instead.
		f.inputs[formFieldTarget].Placeholder = fmt.Sprintf("%d (template)", t.Recommended.TargetLength)
	}
}

func (f *createForm) templateID(templates []model.StoryTemplate) string {
	if f.templateIdx < 0 || f.templateIdx >= len(templates) {
		return ""
	}
	return templates[f.templateIdx].ID
}

// submission resolves the typed fields into the validated form. A non-empty
// error string keeps the modal open.
func (f *createForm) submission(templates []model.StoryTemplate) (state.CreateProjectForm, bool) {
	target := 0
	if raw := strings.TrimSpace(f.inputs[formFieldTarget].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			f.errText = "target length must be a non-negative number"
			return state.CreateProjectForm{}, false
		}
		target = n
	}
	form := state.CreateProjectForm{
		Name:         strings.TrimSpace(f.inputs[formFieldName].Value()),
		Genre:        strings.TrimSpace(f.inputs[formFieldGenre].Value()),
		Style:        strings.TrimSpace(f.inputs[formFieldStyle].Value()),
		TemplateID:   f.templateID(templates),
		TargetLength: target,
		Taboos:       f.inputs[formFieldTaboos].Value(),
	}
	if err := form.Validate(); err != nil {
		f.errText = err.Error()
		return state.CreateProjectForm{}, false
	}
	f.errText = ""
	return form, true
}

func (f *createForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range f.inputs {
		var cmd tea.Cmd
		f.inputs[i], cmd = f.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f createForm) view(termWidth int, templates []model.StoryTemplate) string {
	bodyW := modalBodyWidth(termWidth)
	labelSt := lipgloss.NewStyle().Foreground(colorChromeFg).Width(8)
	focusSt := lipgloss.NewStyle().Foreground(colorAccent).Width(8).Bold(true)

	var b strings.Builder
	for i := range f.inputs {
		st := labelSt
		if i == f.focus {
			st = focusSt
		}
		b.WriteString(st.Render(formLabels[i]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	tmpl := "none (ctrl+t cycles)"
	if f.templateIdx >= 0 && f.templateIdx < len(templates) {
		t := templates[f.templateIdx]
		tmpl = t.Name
		if t.Category != "" {
			tmpl += " [" + t.Category + "]"
		}
	} else if len(templates) == 0 {
		tmpl = "none available"
	}
	b.WriteString(labelSt.Render("Template") + tmpl + "\n")

	if f.errText != "" {
		b.WriteString("\n" + styleError().Width(bodyW - 2).Render(f.errText) + "\n")
	}
	if f.busy {
		b.WriteString("\n" + styleMuted().Render("creating "+glyphPending()) + "\n")
	}
	b.WriteString("\n" + styleMuted().Width(bodyW-2).Render("tab: next field   enter: create   esc: cancel"))

	return renderModalBox(termWidth, "New project", b.String())
}
