package output

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/team"
)

const (
	coverFill  = "#1db954"
	friendPen  = "#e22134"
	defaultPen = "#191414"
)

// ToDOT renders the project graph as an undirected Graphviz graph with
// Stockholm employees in the left column and London employees in the right.
// Members of c are filled; friend gets a red outline. Edges with exactly one
// covered endpoint are solid, edges covered twice are dashed.
func ToDOT(p *team.Projects, c cover.Cover, friend team.ID) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("\n")

	var stockholm, london []team.ID
	for _, id := range p.Employees() {
		if id.IsLondon() {
			london = append(london, id)
		} else {
			stockholm = append(stockholm, id)
		}
	}

	writeRank(&buf, "Stockholm", stockholm, c, friend)
	writeRank(&buf, "London", london, c, friend)

	buf.WriteString("\n")
	for _, t := range p.Teams() {
		style := ""
		if c.Contains(t.Stockholm) && c.Contains(t.London) {
			style = " [style=dashed]"
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", t.Stockholm.String(), t.London.String(), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeRank(buf *bytes.Buffer, office string, ids []team.ID, c cover.Cover, friend team.ID) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+office)
	fmt.Fprintf(buf, "    label=%q;\n", office)
	buf.WriteString("    rank=same;\n")
	for _, id := range ids {
		fmt.Fprintf(buf, "    %q [%s];\n", id.String(), nodeAttrs(id, c, friend))
	}
	buf.WriteString("  }\n")
}

func nodeAttrs(id team.ID, c cover.Cover, friend team.ID) string {
	fill, font, pen, width := "white", defaultPen, defaultPen, 1
	if c.Contains(id) {
		fill, font = coverFill, "white"
	}
	if id == friend {
		pen, width = friendPen, 3
	}
	return fmt.Sprintf("fillcolor=%q, fontcolor=%q, color=%q, penwidth=%d", fill, font, pen, width)
}

// RenderSVG lays out a DOT graph and returns it as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container instead of using Graphviz's point units.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
