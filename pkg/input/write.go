package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/bilateral/pkg/team"
)

// Write emits p in the text format accepted by [Parse], teams in key order.
func Write(w io.Writer, p *team.Projects) error {
	return WriteTeams(w, p.Teams())
}

// WriteTeams emits teams in the text format, preserving their order.
func WriteTeams(w io.Writer, teams []team.Team) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(teams))
	for _, t := range teams {
		fmt.Fprintf(bw, "%d %d\n", t.Stockholm, t.London)
	}
	return bw.Flush()
}

// WriteProlog emits teams as a single solve/2 goal:
//
//	solve([(1000,2000),(1001,2000)], Solution)
func WriteProlog(w io.Writer, teams []team.Team) error {
	parts := make([]string, len(teams))
	for i, t := range teams {
		parts[i] = fmt.Sprintf("(%d,%d)", t.Stockholm, t.London)
	}
	_, err := fmt.Fprintf(w, "solve([%s], Solution)\n", strings.Join(parts, ","))
	return err
}
