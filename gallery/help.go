package gallery

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Gallery

| Input | Action |
|---|---|
| ← / h, click ◀ | previous artwork |
| → / l, click ▶ | next artwork |
| ? | toggle this help |
| q / esc | quit |

Moving again while the ring is turning restarts the turn from where it is.
`

// renderHelp renders the help overlay once; glamour styling is too slow to
// redo every frame.
func renderHelp(width int) string {
	if width <= 0 {
		width = 60
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
