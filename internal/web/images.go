package web

import (
	"html/template"
	"net/url"
	"regexp"
	"strings"
)

// inlineImage matches the base64 data URLs produced by image uploads.
var inlineImage = regexp.MustCompile(`^data:image/(jpeg|png|gif|webp);base64,[A-Za-z0-9+/=]+$`)

// imageSrc returns src for use in an img src attribute. Inline base64
// images are marked safe; http(s) and relative URLs pass through; anything
// else yields an empty source.
func imageSrc(src string) template.URL {
	src = strings.TrimSpace(src)
	if inlineImage.MatchString(src) {
		return template.URL(src)
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return template.URL(src)
	default:
		return ""
	}
}
