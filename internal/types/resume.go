// Package types provides type definitions for structured data used throughout the resume service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the payload submitted by the editor: the resume body
// under "person" and the language pack identifier under "lang".
type ResumeDocument struct {
	Person Resume `json:"person"`
	Lang   string `json:"lang"`
}

// Resume holds the data rendered into a template. Every field is optional;
// missing values render as empty strings.
type Resume struct {
	Name             Name         `json:"name"`
	Position         string       `json:"position,omitempty"`
	Birth            Birth        `json:"birth"`
	Experience       []Experience `json:"experience,omitempty"`
	Education        []Education  `json:"education,omitempty"`
	Skills           []Skill      `json:"skills,omitempty"`
	SkillDescription string       `json:"skillDescription,omitempty"`
	Contact          Contact      `json:"contact"`
}

// Name is a person's given and family name
type Name struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Full returns "First Last", trimming the separator when either part is missing.
func (n Name) Full() string {
	switch {
	case n.First == "":
		return n.Last
	case n.Last == "":
		return n.First
	default:
		return n.First + " " + n.Last
	}
}

// Birth holds the year (0 when unknown) and free-text place of birth
type Birth struct {
	Year     int    `json:"year,omitempty"`
	Location string `json:"location,omitempty"`
}

// Experience represents one employment entry
type Experience struct {
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	TimePeriod  string `json:"timeperiod,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education represents one degree or course entry
type Education struct {
	Degree      string `json:"degree,omitempty"`
	TimePeriod  string `json:"timeperiod,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named skill with an integer proficiency level
type Skill struct {
	Name  string `json:"name,omitempty"`
	Level int    `json:"level"`
}

// Contact holds the contact block shown in the resume header
type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Website string `json:"website,omitempty"`
	GitHub  string `json:"github,omitempty"`
}
