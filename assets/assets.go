// Package assets embeds the templates, language packs, editor pages and
// static resources compiled into the service.
package assets

import "embed"

// FS holds every compiled-in resource. Layout:
//
//	templates/<id>.html   resume templates
//	languages/<id>.json   language packs
//	pages/<editor>.html   editor shells
//	static/               resources referenced by templates and pages
//	default-resume.json   example document shown in the editors
//
//go:embed templates languages pages static default-resume.json
var FS embed.FS
