package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// SVG renders the frame as a vector image of the same size, back to front.
func SVG(f *Frame) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, f.Width, f.Height, f.Width, f.Height, f.Background.Clamped().Hex())

	type item struct {
		depth float64
		svg   string
	}
	var items []item

	path := func(pts []mgl64.Vec3) (string, bool) {
		var b strings.Builder
		for i, p := range pts {
			x, y, _, ok := f.Project(p)
			if !ok {
				return "", false
			}
			if i == 0 {
				fmt.Fprintf(&b, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&b, " L%.1f,%.1f", x, y)
			}
		}
		return b.String(), len(pts) > 1
	}

	for _, l := range f.Lines {
		if d, ok := path(l.Points); ok {
			// Orbit guides sit behind everything.
			items = append(items, item{math.Inf(1), fmt.Sprintf(
				`<path fill="none" stroke="%s" stroke-opacity="0.35" stroke-width="1" d="%s"/>`,
				l.Color.Clamped().Hex(), d)})
		}
	}
	for _, r := range f.Rings {
		outer, ok1 := path(r.RingPoints(r.Outer))
		inner, ok2 := path(r.RingPoints(r.Inner))
		if ok1 && ok2 {
			items = append(items, item{r.Center.Sub(f.Eye).Len(), fmt.Sprintf(
				`<path fill="%s" fill-opacity="0.8" fill-rule="evenodd" d="%s Z %s Z"/>`,
				r.Color.Clamped().Hex(), outer, inner)})
		}
	}
	for _, s := range f.Spheres {
		x, y, _, ok := f.Project(s.Center)
		if !ok {
			continue
		}
		items = append(items, item{s.Center.Sub(f.Eye).Len(), fmt.Sprintf(
			`<circle id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
			escape(s.Name), x, y, f.ProjectedRadius(s), s.Color.Clamped().Hex())})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })
	for _, it := range items {
		sb.WriteString(it.svg)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG writes the SVG rendition of f to w.
func WriteSVG(w io.Writer, f *Frame) error {
	_, err := io.WriteString(w, SVG(f))
	return err
}

var svgEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escape(s string) string { return svgEscaper.Replace(s) }
