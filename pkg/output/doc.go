// Package output formats solved covers.
//
// [WriteText] produces the puzzle answer: the cover size on the first line
// followed by one member per line in ascending order. [WriteJSON] adds the
// solver statistics. [ToDOT] and [RenderSVG] draw the bipartite project
// graph with the chosen cover highlighted:
//
//	dot := output.ToDOT(projects, res.Cover, friend)
//	svg, err := output.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no system binaries are needed.
package output
