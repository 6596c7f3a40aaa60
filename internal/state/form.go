package state

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell-cli/internal/model"
)

// DefaultTargetLength matches the studio default for new projects.
const DefaultTargetLength = 300000

// CreateProjectForm is the create input as typed. Taboos holds the raw
// comma-separated field; Input splits it into trimmed non-empty entries.
type CreateProjectForm struct {
	Name         string
	Genre        string
	Style        string
	TemplateID   string
	TargetLength int
	Taboos       string
}

func (f CreateProjectForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&f.Genre, validation.Required, validation.Length(1, 60)),
		validation.Field(&f.Style, validation.Required, validation.Length(1, 60)),
		validation.Field(&f.TargetLength, validation.Min(0)),
	)
}

// SplitTaboos splits a comma-separated taboo field into trimmed non-empty
// entries. Fullwidth commas count as separators since taboo lists are often
// typed in CJK input modes.
func SplitTaboos(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Input validates the form and resolves it into the create request payload.
// An unset target length falls back to the studio default unless a template
// is chosen, in which case the backend resolves the template's
// recommendation.
func (f CreateProjectForm) Input() (model.CreateProjectInput, error) {
	if err := f.Validate(); err != nil {
		return model.CreateProjectInput{}, err
	}
	in := model.CreateProjectInput{
		Name:             strings.TrimSpace(f.Name),
		Genre:            strings.TrimSpace(f.Genre),
		Style:            strings.TrimSpace(f.Style),
		TargetLength:     f.TargetLength,
		TabooConstraints: SplitTaboos(f.Taboos),
	}
	if id := strings.TrimSpace(f.TemplateID); id != "" {
		in.TemplateID = &id
	}
	if in.TargetLength <= 0 && in.TemplateID == nil {
		in.TargetLength = DefaultTargetLength
	}
	return in, nil
}
