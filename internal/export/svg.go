package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/treedrift/internal/grove"
)

const (
	background = "#0a0a0a"
	vacantFill = "#1e1e1e"
)

// GridSVG renders one disk per cell. scale is the pixel pitch of a cell;
// every call repaints the full grid.
func GridSVG(w io.Writer, g *grove.Grid, species grove.SpeciesSet, scale float64) error {
	if g == nil {
		return fmt.Errorf("nil grid")
	}
	if scale <= 0 {
		scale = 10
	}

	size := float64(g.Side()) * scale
	radius := scale * 0.45

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background))

	for _, c := range g.Cells() {
		fill := species.Color(c.Species)
		if fill == "" {
			fill = vacantFill
		}
		cx := (float64(c.Col) + 0.5) * scale
		cy := (float64(c.Row) + 0.5) * scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, radius, fill))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
