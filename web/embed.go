// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static assets.
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the page templates.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: embedded " + dir + " missing: " + err.Error())
	}
	return sub
}
