package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/team"
)

// WriteText writes the cover size followed by each member on its own line.
func WriteText(w io.Writer, c cover.Cover) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, c.Len())
	for _, id := range c.Members() {
		fmt.Fprintln(bw, id)
	}
	return bw.Flush()
}

// Report is the JSON form of a solve result.
type Report struct {
	Size           int         `json:"size"`
	Members        cover.Cover `json:"members"`
	Friend         team.ID     `json:"friend"`
	FriendIncluded bool        `json:"friend_included"`
	OptimalCount   int         `json:"optimal_count"`
	PreferredCount int         `json:"preferred_count"`
	Stats          cover.Stats `json:"stats"`
}

// NewReport builds a Report from res.
func NewReport(res cover.Result, friend team.ID) Report {
	return Report{
		Size:           res.Cover.Len(),
		Members:        res.Cover,
		Friend:         friend,
		FriendIncluded: res.FriendIncluded,
		OptimalCount:   res.OptimalCount,
		PreferredCount: res.PreferredCount,
		Stats:          res.Stats,
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
