package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-pdf/internal/types"
)

// MaxSkillLevel is the proficiency level drawn as a full skill bar.
const MaxSkillLevel = 5

// TemplateData is the value templates are executed against
type TemplateData struct {
	Person types.Resume
	Lang   types.LanguagePack
}

// funcs are the helpers available to every resume template
var funcs = template.FuncMap{
	"levelPercent": LevelPercent,
}

// ParseTemplate parses template source with the resume helper functions.
func ParseTemplate(name, source string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(source)
	if err != nil {
		return nil, &TemplateError{Template: name, Phase: PhaseParse, Cause: err}
	}
	return tmpl, nil
}

// Compose binds a resume and its language pack into a template and returns
// the resulting markup. It performs no I/O. Nil inputs are treated as empty
// documents so that absent values render as empty strings.
func Compose(doc *types.ResumeDocument, lang *types.LanguagePack, templateSource string) (string, error) {
	tmpl, err := ParseTemplate("resume", templateSource)
	if err != nil {
		return "", err
	}

	data := TemplateData{}
	if doc != nil {
		data.Person = doc.Person
	}
	if lang != nil {
		data.Lang = *lang
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{Template: tmpl.Name(), Phase: PhaseExecute, Cause: err}
	}
	return sb.String(), nil
}

// LevelPercent converts a skill level into a bar width between 0 and 100.
func LevelPercent(level int) int {
	switch {
	case level <= 0:
		return 0
	case level >= MaxSkillLevel:
		return 100
	default:
		return level * 100 / MaxSkillLevel
	}
}
