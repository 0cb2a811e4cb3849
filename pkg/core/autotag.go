package core

import (
	"context"
	"sort"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/model"
	objectsstatus "github.com/oneconcern/cmon/pkg/objects/status"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// depGraph is a snapshot of the dependency graph of the workspace, as an arena of nodes
// indexed by versionless ID. It is built before any version is created.
type depGraph struct {
	nodes []graphNode
	byKey map[string]int
}

type graphNode struct {
	id         model.ID
	deps       []int
	dependents []int
}

func newDepGraph() *depGraph {
	return &depGraph{byKey: make(map[string]int)}
}

func (g *depGraph) add(id model.ID) int {
	key := id.StringWithoutVersion()
	if n, ok := g.byKey[key]; ok {
		return n
	}
	g.nodes = append(g.nodes, graphNode{id: id})
	n := len(g.nodes) - 1
	g.byKey[key] = n
	return n
}

// link records that node n depends on each of deps. Dependencies outside the graph are ignored.
func (g *depGraph) link(n int, deps model.IDs) {
	for _, dep := range deps {
		d, ok := g.byKey[dep.StringWithoutVersion()]
		if !ok || d == n || contains(g.nodes[n].deps, d) {
			continue
		}
		g.nodes[n].deps = append(g.nodes[n].deps, d)
		g.nodes[d].dependents = append(g.nodes[d].dependents, n)
	}
}

func contains(set []int, n int) bool {
	for _, m := range set {
		if m == n {
			return true
		}
	}
	return false
}

// dependentsOf lists the nodes which depend on the seeds, directly or transitively.
// Seeds are not part of the result.
func (g *depGraph) dependentsOf(seeds []int) []int {
	visited := make(map[int]bool, len(g.nodes))
	for _, s := range seeds {
		visited[s] = true
	}
	queue := append([]int{}, seeds...)
	var reached []int
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, d := range g.nodes[n].dependents {
			if visited[d] {
				continue
			}
			visited[d] = true
			reached = append(reached, d)
			queue = append(queue, d)
		}
	}
	return reached
}

// order sorts a subset of nodes so that dependencies come before their dependents.
//
// Nodes ready at the same time are sorted by ID. Nodes left in a cycle come last, sorted by ID.
func (g *depGraph) order(subset []int) []int {
	in := make(map[int]bool, len(subset))
	for _, n := range subset {
		in[n] = true
	}
	pending := make(map[int]int, len(subset))
	for _, n := range subset {
		for _, d := range g.nodes[n].deps {
			if in[d] {
				pending[n]++
			}
		}
	}

	var ready []int
	for _, n := range subset {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	ordered := make([]int, 0, len(subset))
	done := make(map[int]bool, len(subset))
	for len(ready) > 0 {
		g.sortByID(ready)
		n := ready[0]
		ready = ready[1:]
		ordered = append(ordered, n)
		done[n] = true
		for _, d := range g.nodes[n].dependents {
			if !in[d] {
				continue
			}
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(ordered) < len(subset) {
		var cycle []int
		for _, n := range subset {
			if !done[n] {
				cycle = append(cycle, n)
			}
		}
		g.sortByID(cycle)
		ordered = append(ordered, cycle...)
	}
	return ordered
}

func (g *depGraph) sortByID(nodes []int) {
	sort.Slice(nodes, func(i, j int) bool {
		return g.nodes[nodes[i]].id.StringWithoutVersion() < g.nodes[nodes[j]].id.StringWithoutVersion()
	})
}

// storedComponent is a component of the workspace, with the stored version it points to
type storedComponent struct {
	id      model.ID
	history *model.History
	version *model.VersionSnapshot
}

// PotentialComponentsForAutoTagging lists the authored and imported components available
// on the checked out lane, except the ones about to be versioned
func (w *Workspace) PotentialComponentsForAutoTagging(versioned model.IDs) model.IDs {
	var candidates model.IDs
	for _, id := range w.index.AllIDsAvailableOnLane(model.Authored, model.Imported) {
		if !versioned.HasWithoutVersion(id) {
			candidates = append(candidates, id)
		}
	}
	return candidates
}

// loadStored loads the stored versions of components, as pointed to by the workspace.
//
// Components without stored version are skipped.
func (w *Workspace) loadStored(ctx context.Context, ids model.IDs) ([]storedComponent, error) {
	loaded := make([]*storedComponent, len(ids))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(w.loadConcurrency)
	for i := range ids {
		idx := i
		id := ids[i]
		if !id.HasVersion() {
			continue
		}
		group.Go(func() error {
			history, err := w.objects.GetHistoryIfExist(gctx, id)
			if err != nil || history == nil {
				return err
			}
			ref, ok := history.Ref(id.Version)
			if !ok {
				return nil
			}
			v, err := w.objects.GetVersion(gctx, ref)
			if err != nil {
				if errors.Is(err, objectsstatus.ErrNotFound) {
					w.l.Debug("stored version not found locally", zap.String("id", id.String()))
					return nil
				}
				return err
			}
			loaded[idx] = &storedComponent{id: id, history: history, version: v}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	res := make([]storedComponent, 0, len(ids))
	for _, s := range loaded {
		if s != nil {
			res = append(res, *s)
		}
	}
	return res, nil
}

// DependentsOf lists the authored and imported components available on the checked out lane
// which directly depend on some components, according to their stored versions
func (w *Workspace) DependentsOf(ctx context.Context, ids model.IDs) (model.IDs, error) {
	stored, err := w.loadStored(ctx, w.PotentialComponentsForAutoTagging(ids))
	if err != nil {
		return nil, err
	}
	var dependents model.IDs
	for _, s := range stored {
		for _, dep := range s.version.AllDependencies() {
			if ids.HasWithoutVersion(dep) {
				dependents = append(dependents, s.id)
				break
			}
		}
	}
	sort.Sort(dependents)
	return dependents, nil
}
