// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

// Graph is the evaluation-order view derived from a Builder's edges
// (spec §4.2 "Dependency graph"): models condensed into strongly
// connected components, each component either a single model (plain
// topological step) or a cyclic group handed to a local Newton solver,
// and components bucketed into parallel layers by topological rank.
type Graph struct {
	nodes []AbstractModel
	index map[AbstractModel]int
	adj   [][]int // node -> nodes it feeds (producer -> consumer)

	comps    [][]int // tarjan SCCs, in reverse-topological output order
	compOf   []int   // node index -> comp index
	compAdj  [][]int // comp -> comp edges, deduplicated
	Layers   [][]int // comp indices bucketed by parallel-evaluation rank
}

// NewGraph flattens a Builder's edge list into index space. models must
// list every AbstractModel the builder resolved over, state-dependent or
// not, so pure producers (schedules, climate) get a node too.
func NewGraph(models []AbstractModel, edges []Edge) *Graph {
	g := &Graph{
		nodes: models,
		index: make(map[AbstractModel]int, len(models)),
	}
	for i, m := range models {
		g.index[m] = i
	}
	g.adj = make([][]int, len(models))
	for _, e := range edges {
		pi, ok1 := g.index[e.Producer]
		ci, ok2 := g.index[e.Consumer]
		if !ok1 || !ok2 {
			continue // producer/consumer outside the tracked node set (e.g. schedule/FMI source)
		}
		g.adj[pi] = append(g.adj[pi], ci)
	}
	g.tarjan()
	g.condense()
	g.layer()
	return g
}

// ComponentModels returns the models in strongly connected component c,
// in the order discovered. A component of size 1 whose single node has
// no self-loop is a plain model; everything else is a cyclic group (spec
// §4.2 "Strongly connected group").
func (g *Graph) ComponentModels(c int) []AbstractModel {
	out := make([]AbstractModel, 0, len(g.comps[c]))
	for _, idx := range g.comps[c] {
		out = append(out, g.nodes[idx])
	}
	return out
}

// IsCyclic reports whether component c requires a local Newton solve:
// more than one member, or a single member with a self-dependency.
func (g *Graph) IsCyclic(c int) bool {
	members := g.comps[c]
	if len(members) > 1 {
		return true
	}
	only := members[0]
	for _, j := range g.adj[only] {
		if j == only {
			return true
		}
	}
	return false
}

// NComponents returns the number of strongly connected components.
func (g *Graph) NComponents() int { return len(g.comps) }

// tarjan runs Tarjan's SCC algorithm iteratively (an explicit stack
// avoids stack-depth limits on graphs built from large networks).
func (g *Graph) tarjan() {
	n := len(g.nodes)
	indexOf := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range indexOf {
		indexOf[i] = -1
	}
	var stack []int
	nextIndex := 0

	type frame struct {
		v     int
		child int // next adjacency slot to visit
	}

	for start := 0; start < n; start++ {
		if indexOf[start] != -1 {
			continue
		}
		callStack := []frame{{v: start}}
		indexOf[start] = nextIndex
		low[start] = nextIndex
		nextIndex++
		stack = append(stack, start)
		onStack[start] = true

		for len(callStack) > 0 {
			top := &callStack[len(callStack)-1]
			v := top.v
			if top.child < len(g.adj[v]) {
				w := g.adj[v][top.child]
				top.child++
				if indexOf[w] == -1 {
					indexOf[w] = nextIndex
					low[w] = nextIndex
					nextIndex++
					stack = append(stack, w)
					onStack[w] = true
					callStack = append(callStack, frame{v: w})
				} else if onStack[w] {
					if indexOf[w] < low[v] {
						low[v] = indexOf[w]
					}
				}
				continue
			}
			// done with v: pop frame, propagate low-link to parent
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				p := callStack[len(callStack)-1].v
				if low[v] < low[p] {
					low[p] = low[v]
				}
			}
			if low[v] == indexOf[v] {
				var comp []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				g.comps = append(g.comps, comp)
			}
		}
	}

	g.compOf = make([]int, n)
	for ci, comp := range g.comps {
		for _, v := range comp {
			g.compOf[v] = ci
		}
	}
}

// condense builds the component-level adjacency, deduplicated, skipping
// self-loops (a cyclic component is resolved internally, not re-ordered
// against itself).
func (g *Graph) condense() {
	g.compAdj = make([][]int, len(g.comps))
	seen := make([]map[int]bool, len(g.comps))
	for ci := range g.comps {
		seen[ci] = make(map[int]bool)
	}
	for v, outs := range g.adj {
		cv := g.compOf[v]
		for _, w := range outs {
			cw := g.compOf[w]
			if cw == cv || seen[cv][cw] {
				continue
			}
			seen[cv][cw] = true
			g.compAdj[cv] = append(g.compAdj[cv], cw)
		}
	}
}

// layer buckets components by longest-path rank from any source, giving
// the parallel evaluation layers of spec §5: everything in one layer is
// mutually independent and may run on the worker pool; layers themselves
// are strictly sequential.
func (g *Graph) layer() {
	nc := len(g.comps)
	indeg := make([]int, nc)
	for _, outs := range g.compAdj {
		for _, w := range outs {
			indeg[w]++
		}
	}
	rank := make([]int, nc)
	var queue []int
	for c := 0; c < nc; c++ {
		if indeg[c] == 0 {
			queue = append(queue, c)
		}
	}
	processed := 0
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		processed++
		for _, w := range g.compAdj[c] {
			if rank[c]+1 > rank[w] {
				rank[w] = rank[c] + 1
			}
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
	if processed != nc {
		// tarjan guarantees compAdj is a DAG; a mismatch means a bug in
		// condense, not a configuration error, so this never happens in
		// correctly wired graphs.
		panic("modl: component graph is not acyclic after condensation")
	}

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	g.Layers = make([][]int, maxRank+1)
	for c, r := range rank {
		g.Layers[r] = append(g.Layers[r], c)
	}
}
