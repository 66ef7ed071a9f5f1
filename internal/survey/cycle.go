package survey

import (
	"slices"
	"strings"
)

// Cycles reports every loop in the question graph.
//
// A respondent routed back to a question they already answered cannot go
// on: the second submission is rejected. Loops are warnings because the
// branch that closes one may never be taken.
//
// Each strongly connected component of more than one question, and each
// question that points at itself, yields one warning. Components are found
// with Tarjan's algorithm, visiting questions in declaration order so the
// output is stable.
func Cycles(s *Survey) []ValidationError {
	graph := make(map[string][]string, len(s.questions))
	order := make([]string, 0, len(s.questions))
	for _, q := range s.questions {
		var edges []string
		for _, next := range Edges(q) {
			if _, ok := s.byID[next]; ok {
				edges = append(edges, next)
			}
		}
		graph[q.QuestionID()] = edges
		order = append(order, q.QuestionID())
	}

	var warns []ValidationError
	for _, scc := range tarjanSCC(order, graph) {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		path := cyclePath(scc, order, graph)
		warns = append(warns, ValidationError{
			Field:   "questions",
			Message: "questions loop: " + strings.Join(path, " -> "),
			Code:    WarnQuestionCycle,
		})
	}
	return warns
}

func hasSelfLoop(id string, graph map[string][]string) bool {
	for _, next := range graph[id] {
		if next == id {
			return true
		}
	}
	return false
}

// tarjanSCC returns the strongly connected components of graph.
func tarjanSCC(order []string, graph map[string][]string) [][]string {
	var (
		index   int
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}
		var scc []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sccs = append(sccs, scc)
	}

	for _, id := range order {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}

	// Report components by their earliest declared question.
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	first := func(scc []string) int {
		p := len(order)
		for _, id := range scc {
			p = min(p, pos[id])
		}
		return p
	}
	for i := 1; i < len(sccs); i++ {
		for j := i; j > 0 && first(sccs[j]) < first(sccs[j-1]); j-- {
			sccs[j], sccs[j-1] = sccs[j-1], sccs[j]
		}
	}
	return sccs
}

// cyclePath returns the shortest loop through scc that starts and ends at
// its earliest declared question.
func cyclePath(scc, order []string, graph map[string][]string) []string {
	members := make(map[string]bool, len(scc))
	for _, id := range scc {
		members[id] = true
	}

	var start string
	for _, id := range order {
		if members[id] {
			start = id
			break
		}
	}

	// Breadth-first search inside the component for the way back to start.
	parent := map[string]string{}
	queue := []string{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range graph[v] {
			if w == start {
				path := []string{start}
				for at := v; at != start; at = parent[at] {
					path = append(path, at)
				}
				slices.Reverse(path[1:])
				return append(path, start)
			}
			if _, seen := parent[w]; members[w] && !seen {
				parent[w] = v
				queue = append(queue, w)
			}
		}
	}
	return []string{start}
}
