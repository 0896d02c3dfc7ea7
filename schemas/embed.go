// Package schemas embeds the JSON Schema documents shipped with the service.
package schemas

import _ "embed"

// Resume is the JSON Schema for submitted resume documents.
//
//go:embed resume.schema.json
var Resume string
