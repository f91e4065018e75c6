// Package configs provides the embedded configuration template for webstash.
//
// The template is embedded at build time with go:embed so it ships inside
// the binary regardless of how webstash was installed. `webstash init`
// writes it to ~/.webstash/config.yaml for the user to edit.
package configs

import _ "embed"

// ConfigTemplate is the annotated starter configuration.
//
//go:embed config.example.yaml
var ConfigTemplate string
