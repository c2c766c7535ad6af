package theme

import "embed"

// EmbeddedThemes holds the themes compiled into the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
