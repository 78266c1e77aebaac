// Package web embeds the browser client served at the root of the HTTP API.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html style.css app.js
var files embed.FS

// FS returns the client's static files.
func FS() fs.FS {
	return files
}
