package routing

import "container/heap"

type PriorityQueueItem struct {
	NodeID   string
	Priority int
	Index    int
}

type PriorityQueue []*PriorityQueueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].Priority < pq[j].Priority
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*PriorityQueueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// ShortestDistance returns the minimum number of steps between two rooms.
// A missing room or a disconnected pair yields a *NoPathError.
func ShortestDistance(graph *Graph, startNode, endNode string) (int, error) {
	_, steps, err := dijkstra(graph, startNode, endNode, false)
	return steps, err
}

// ShortestPath behaves like ShortestDistance and also returns one of the
// shortest room sequences. Equal-cost alternatives may come back in any order.
func ShortestPath(graph *Graph, startNode, endNode string) ([]string, int, error) {
	return dijkstra(graph, startNode, endNode, true)
}

func dijkstra(graph *Graph, startNode, endNode string, withPath bool) ([]string, int, error) {
	if graph == nil || !graph.HasNode(startNode) || !graph.HasNode(endNode) {
		return nil, 0, &NoPathError{From: startNode, To: endNode}
	}
	if startNode == endNode {
		var path []string
		if withPath {
			path = []string{startNode}
		}
		return path, 0, nil
	}

	distances := make(map[string]int, len(graph.Nodes))
	previous := make(map[string]string)
	visited := make(map[string]bool, len(graph.Nodes))

	openSet := &PriorityQueue{}
	heap.Init(openSet)
	distances[startNode] = 0
	heap.Push(openSet, &PriorityQueueItem{NodeID: startNode, Priority: 0})

	// Lazy decrease-key: stale queue entries are skipped when popped.
	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*PriorityQueueItem)
		currentNode := current.NodeID
		if visited[currentNode] {
			continue
		}
		visited[currentNode] = true

		if currentNode == endNode {
			break
		}

		for neighborNode, steps := range graph.Edges[currentNode] {
			if visited[neighborNode] {
				continue
			}
			tentative := distances[currentNode] + steps
			if existing, ok := distances[neighborNode]; !ok || tentative < existing {
				distances[neighborNode] = tentative
				previous[neighborNode] = currentNode
				heap.Push(openSet, &PriorityQueueItem{NodeID: neighborNode, Priority: tentative})
			}
		}
	}

	total, ok := distances[endNode]
	if !ok {
		return nil, 0, &NoPathError{From: startNode, To: endNode}
	}
	if !withPath {
		return nil, total, nil
	}

	path := []string{endNode}
	for current := endNode; current != startNode; {
		current = previous[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, total, nil
}
