package schema

import _ "embed"

// Seed is the JSON Schema for JSON seed files.
//
//go:embed seed.schema.json
var Seed string
