package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed css/* js/*
var embedded embed.FS

// EmbeddedFS holds the debug page client assets.
func EmbeddedFS() fs.FS {
	return embedded
}
