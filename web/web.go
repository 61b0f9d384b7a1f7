// Package web carries the static pages served next to the API. The
// questionnaire page builds its form from /api/v1/questions so the page
// never drifts from the question registry.
package web

import (
	"embed"
	"fmt"
)

//go:embed static
var static embed.FS

// Page returns the named static page, e.g. "index.html".
func Page(name string) ([]byte, error) {
	data, err := static.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	return data, nil
}
