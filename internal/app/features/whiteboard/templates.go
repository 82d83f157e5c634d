// internal/app/features/whiteboard/templates.go
package whiteboard

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "whiteboard",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
