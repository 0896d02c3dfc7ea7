package types

// LanguagePack holds the localized labels used by templates.
// Loaded once at startup and shared read-only.
type LanguagePack struct {
	Code     string   `json:"-"`
	Headings Headings `json:"headings"`
}

// Headings are the section titles of a resume
type Headings struct {
	Contact    string `json:"contact"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
}
