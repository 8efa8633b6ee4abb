package engine

import (
	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

// chainStep is the per-position iteration variable pair: the index to
// probe on the table at this chain position, and the column (on the
// next, already-positioned outer table) whose cached value supplies
// the probe key.
type chainStep struct {
	index     *storage.Index
	colType   catalog.ColumnType
	sourceCol int
	conjunct  *expression.Node
}

// joinPlan is the materialized output of the many-table planner:
// path[0..maxDepth] is the index-connected chain (in DFS/innermost-first
// order), path[maxDepth+1..] are the unconnected tables appended in
// ascending index order, and steps[k] (0<=k<maxDepth) is the iteration
// variable pair used when descending into path[k].
type joinPlan struct {
	path     []int
	maxDepth int
	steps    []chainStep
}

// buildJoinPlan flattens the predicate into conjuncts, builds a
// directed join graph from equality column-ref conjuncts with a usable
// index on at least one side, finds the longest index-connected chain
// by DFS, and appends the remaining tables in ascending order.
func buildJoinPlan(tableNames []string, tables map[string]*storage.Table, predicate *expression.Node) *joinPlan {
	n := len(tableNames)
	nameIdx := make(map[string]int, n)
	for i, name := range tableNames {
		nameIdx[name] = i
	}

	// edge[a][b] != nil means table a (already positioned, outer)
	// supplies the probe key for table b's index.
	edge := make([][]*expression.Node, n)
	for i := range edge {
		edge[i] = make([]*expression.Node, n)
	}

	for _, c := range extractAndConjuncts(predicate) {
		if !isEqualityColumnConjunct(c) {
			continue
		}
		li, lok := nameIdx[c.Left.Table]
		ri, rok := nameIdx[c.Right.Table]
		if !lok || !rok || li == ri {
			continue
		}
		if tables[tableNames[li]].GetIndex(c.Left.Column) != nil {
			edge[ri][li] = c
		}
		if tables[tableNames[ri]].GetIndex(c.Right.Column) != nil {
			edge[li][ri] = c
		}
	}

	bestPath := longestChainFrom(0, edge, n)
	for s := 1; s < n; s++ {
		p := longestChainFrom(s, edge, n)
		if len(p) > len(bestPath) {
			bestPath = p
		}
	}

	used := make([]bool, n)
	for _, v := range bestPath {
		used[v] = true
	}
	path := append([]int{}, bestPath...)
	for v := 0; v < n; v++ {
		if !used[v] {
			path = append(path, v)
		}
	}

	maxDepth := len(bestPath) - 1
	steps := make([]chainStep, maxDepth)
	for k := 0; k < maxDepth; k++ {
		cur := path[k]
		next := path[k+1]
		conjunct := edge[next][cur]

		var probeCol, sourceCol string
		if conjunct.Left.Table == tableNames[cur] {
			probeCol, sourceCol = conjunct.Left.Column, conjunct.Right.Column
		} else {
			probeCol, sourceCol = conjunct.Right.Column, conjunct.Left.Column
		}

		curTbl := tables[tableNames[cur]]
		nextTbl := tables[tableNames[next]]
		steps[k] = chainStep{
			index:     curTbl.GetIndex(probeCol),
			colType:   curTbl.GetColumnType(curTbl.LookupColumn(probeCol)),
			sourceCol: nextTbl.LookupColumn(sourceCol),
			conjunct:  conjunct,
		}
	}

	return &joinPlan{path: path, maxDepth: maxDepth, steps: steps}
}

// longestChainFrom runs a depth-limited DFS, walking edge[v][cur] to
// extend the chain outward from cur (since v must already be
// positioned to supply cur's probe key). Neighbors are tried in
// ascending order and the first path reaching a given length is kept.
func longestChainFrom(start int, edge [][]*expression.Node, n int) []int {
	visited := make([]bool, n)
	visited[start] = true
	path := []int{start}
	best := append([]int{}, path...)

	var dfs func()
	dfs = func() {
		if len(path) > len(best) {
			best = append([]int{}, path...)
		}
		cur := path[len(path)-1]
		for v := 0; v < n; v++ {
			if !visited[v] && edge[v][cur] != nil {
				visited[v] = true
				path = append(path, v)
				dfs()
				path = path[:len(path)-1]
				visited[v] = false
			}
		}
	}
	dfs()
	return best
}
