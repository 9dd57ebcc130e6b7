package routing

import "sort"

// Edge represents an undirected connection between two classrooms
type Edge struct {
	FromID string // One end of the corridor
	ToID   string // Other end of the corridor
	Steps  int    // Steps needed to walk between the two rooms
}

// Graph represents an undirected, weighted graph of classrooms.
// It is built once by the loader and treated as read-only afterwards.
type Graph struct {
	Nodes map[string]struct{}       // Set of room IDs
	Edges map[string]map[string]int // Room ID -> neighbour ID -> steps
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]struct{}),
		Edges: make(map[string]map[string]int),
	}
}

// AddNode registers a room that may have no corridors at all.
func (g *Graph) AddNode(id string) {
	g.Nodes[id] = struct{}{}
}

// AddEdge stores the corridor in both directions. A second record for the
// same pair replaces the first one.
func (g *Graph) AddEdge(from, to string, steps int) {
	g.AddNode(from)
	g.AddNode(to)

	if g.Edges[from] == nil {
		g.Edges[from] = make(map[string]int)
	}
	if g.Edges[to] == nil {
		g.Edges[to] = make(map[string]int)
	}
	g.Edges[from][to] = steps
	g.Edges[to][from] = steps
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Weight returns the direct corridor length between two rooms, if any.
func (g *Graph) Weight(from, to string) (int, bool) {
	w, ok := g.Edges[from][to]
	return w, ok
}

// SortedNodes returns every room ID sorted lexicographically so selection lists
// always render in the same order.
func (g *Graph) SortedNodes() []string {
	rooms := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		rooms = append(rooms, id)
	}
	sort.Strings(rooms)
	return rooms
}

// EdgeList returns each undirected corridor once, ordered by endpoints.
func (g *Graph) EdgeList() []Edge {
	edges := make([]Edge, 0)
	for from, neighbours := range g.Edges {
		for to, steps := range neighbours {
			if from > to {
				continue
			}
			edges = append(edges, Edge{FromID: from, ToID: to, Steps: steps})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromID != edges[j].FromID {
			return edges[i].FromID < edges[j].FromID
		}
		return edges[i].ToID < edges[j].ToID
	})
	return edges
}

// EdgeCount returns the number of undirected corridors.
func (g *Graph) EdgeCount() int {
	n := 0
	for from, neighbours := range g.Edges {
		for to := range neighbours {
			if from <= to {
				n++
			}
		}
	}
	return n
}

// Components groups rooms into connected sections of the building. Each
// component and the outer list are sorted.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool, len(g.Nodes))
	var components [][]string

	for _, start := range g.SortedNodes() {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue := []string{start}
		var component []string
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for next := range g.Edges[current] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}
