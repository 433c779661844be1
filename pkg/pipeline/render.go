package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/output"
	"github.com/matzehuels/bilateral/pkg/team"
)

// RenderArtifact draws the project graph with c highlighted.
func RenderArtifact(ctx context.Context, p *team.Projects, c cover.Cover, friend team.ID, format string) ([]byte, error) {
	dot := output.ToDOT(p, c, friend)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return output.RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported artifact format: %s", format)
	}
}

// WriteResult writes res to a byte slice in format. text and json come from
// the result alone; dot and svg also need p.
func (r *Runner) WriteResult(ctx context.Context, p *team.Projects, res *Result, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatText:
		if err := output.WriteText(&buf, res.Cover); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := output.WriteJSON(&buf, output.NewReport(res.Result, res.Friend)); err != nil {
			return nil, err
		}
	default:
		return r.Render(ctx, p, res, format)
	}
	return buf.Bytes(), nil
}
