package preprocessing

import (
	"encoding/json"
	"fmt"
	"io"

	"campus-steps-server/routing"
)

type corridorDump struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Steps int    `json:"steps"`
}

// Summary is the JSON dump written by the index command.
type Summary struct {
	Rooms      []string       `json:"rooms"`
	Corridors  []corridorDump `json:"corridors"`
	Components [][]string     `json:"components"`
	Counts     map[string]int `json:"summary"`
}

func Summarize(g *routing.Graph) Summary {
	components := g.Components()
	isolated := 0
	for _, c := range components {
		if len(c) == 1 && len(g.Edges[c[0]]) == 0 {
			isolated++
		}
	}

	corridors := make([]corridorDump, 0, g.EdgeCount())
	for _, e := range g.EdgeList() {
		corridors = append(corridors, corridorDump{From: e.FromID, To: e.ToID, Steps: e.Steps})
	}

	return Summary{
		Rooms:      g.SortedNodes(),
		Corridors:  corridors,
		Components: components,
		Counts: map[string]int{
			"rooms":         len(g.Nodes),
			"corridors":     len(corridors),
			"components":    len(components),
			"isolatedRooms": isolated,
		},
	}
}

func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
