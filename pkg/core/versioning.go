package core

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/oneconcern/cmon/pkg/core/status"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	firstVersion   = "0.0.1"
	autoTagMessage = "bump dependencies versions"
)

// ReleaseType is the increment of a semantic version
type ReleaseType uint8

// Release types
const (
	ReleasePatch ReleaseType = iota
	ReleaseMinor
	ReleaseMajor
)

func (r ReleaseType) String() string {
	switch r {
	case ReleaseMinor:
		return "minor"
	case ReleaseMajor:
		return "major"
	default:
		return "patch"
	}
}

// ParseReleaseType reads a release type. The empty string is a patch.
func ParseReleaseType(str string) (ReleaseType, error) {
	switch strings.ToLower(str) {
	case "", "patch":
		return ReleasePatch, nil
	case "minor":
		return ReleaseMinor, nil
	case "major":
		return ReleaseMajor, nil
	default:
		return ReleasePatch, &ValidationError{Subject: str, Err: status.ErrInvalidVersion.Errorf("unknown release type")}
	}
}

// AutoTagResult is a component versioned because some of its dependencies were
type AutoTagResult struct {
	ID          model.ID
	TriggeredBy model.IDs
}

// versionParams are common to tags and snaps
type versionParams struct {
	ids              model.IDs
	message          string
	author           model.Contributor
	snap             bool
	exactVersion     string
	releaseType      ReleaseType
	force            bool
	ignoreUnresolved bool
	ignoreNewest     bool
	skipTests        bool
	skipAuto         bool
}

type versionResults struct {
	versioned model.IDs
	auto      []AutoTagResult
}

// plan of a new version, decided before any mutation
type plan struct {
	id      model.ID
	history *model.History

	// component is set for explicit targets, stored for components versioned by the cascade
	component *loader.Component
	stored    *model.VersionSnapshot

	version string
}

func (p *plan) auto() bool {
	return p.component == nil
}

// target of a versioning operation, as loaded from the workspace
type target struct {
	id        model.ID
	component *loader.Component
	history   *model.History
	pending   bool
}

// version creates new versions for components and their dependents.
//
// Every validation happens before the first version is created: a batch with invalid
// components is rejected as a whole. Failures while creating versions are not rolled back.
func (w *Workspace) version(ctx context.Context, p versionParams) (versionResults, error) {
	var results versionResults
	ids := dedup(p.ids)
	if len(ids) == 0 {
		return results, status.ErrNothingToVersion.Errorf("no component specified")
	}
	w.l.Debug("versioning components",
		zap.Strings("ids", ids.Strings()),
		zap.Bool("snap", p.snap),
	)
	if p.skipTests {
		w.l.Debug("tests are skipped")
	}

	lane, err := w.LoadCurrentLane(ctx)
	if err != nil {
		return results, err
	}

	targets, err := w.loadTargets(ctx, ids)
	if err != nil {
		return results, err
	}
	if err = validateTargets(targets, p.ignoreUnresolved); err != nil {
		return results, err
	}

	g := newDepGraph()
	plans := make(map[int]*plan, len(targets))
	var seeds []int
	for _, t := range targets {
		if !p.force && t.component.FromModel != nil {
			modified, err := w.IsModified(t.component.FromModel, t.component)
			if err != nil {
				return results, err
			}
			if !modified {
				w.l.Info("component is not modified, skipping", zap.String("id", t.component.ID.String()))
				continue
			}
		}
		pl := &plan{id: t.component.ID, history: t.history, component: t.component}
		if !p.snap {
			if pl.version, err = nextVersion(t.history, p.exactVersion, p.releaseType, p.ignoreNewest); err != nil {
				return results, err
			}
		}
		n := g.add(pl.id)
		plans[n] = pl
		seeds = append(seeds, n)
	}
	if len(seeds) == 0 {
		return results, status.ErrNothingToVersion.Errorf("no modified component among %s, use force to version them anyway", ids)
	}

	if !p.skipAuto {
		if err = w.planCascade(ctx, g, plans, seeds, p.snap); err != nil {
			return results, err
		}
	}
	for n, pl := range plans {
		if pl.auto() {
			g.link(n, pl.stored.AllDependencies())
		} else {
			g.link(n, pl.component.AllDependencies())
		}
	}

	subset := seeds
	if !p.skipAuto {
		subset = append(append([]int{}, seeds...), g.dependentsOf(seeds)...)
	}
	order := g.order(subset)

	// mutations start here
	newVersions := make(map[string]string, len(order))
	var done []versionedComponent
	for _, n := range order {
		pl := plans[n]
		newID, err := w.createVersion(ctx, pl, p, newVersions, lane)
		if err != nil {
			if uerr := w.updateComponentsVersions(ctx, done, lane); uerr != nil {
				w.l.Error("failed to update the workspace after a partial versioning", zap.Error(uerr))
			}
			return results, status.ErrPartiallyVersioned.Wrapf(err, "%s, after %d new versions", pl.id.StringWithoutVersion(), len(done))
		}
		newVersions[newID.StringWithoutVersion()] = newID.Version
		done = append(done, versionedComponent{id: newID, history: pl.history})

		if !pl.auto() {
			results.versioned = append(results.versioned, newID)
			continue
		}
		var triggeredBy model.IDs
		for _, d := range g.nodes[n].deps {
			if version, ok := newVersions[g.nodes[d].id.StringWithoutVersion()]; ok {
				triggeredBy = append(triggeredBy, g.nodes[d].id.ChangeVersion(version))
			}
		}
		results.auto = append(results.auto, AutoTagResult{ID: newID, TriggeredBy: triggeredBy.Sorted()})
	}

	if err = w.updateComponentsVersions(ctx, done, lane); err != nil {
		return results, err
	}

	w.l.Info("components versioned",
		zap.Strings("ids", results.versioned.Strings()),
		zap.Int("cascaded", len(results.auto)),
		zap.Bool("snap", p.snap),
	)
	return results, nil
}

func dedup(ids model.IDs) model.IDs {
	var res model.IDs
	for _, id := range ids {
		if !res.HasWithoutVersion(id) {
			res = append(res, id)
		}
	}
	return res
}

// loadTargets loads the components to version, concurrently
func (w *Workspace) loadTargets(ctx context.Context, ids model.IDs) ([]*target, error) {
	targets := make([]*target, len(ids))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(w.loadConcurrency)
	for i := range ids {
		idx := i
		id := ids[i]
		group.Go(func() error {
			t := &target{id: id}
			targets[idx] = t

			c, err := w.loader.Load(gctx, id.ChangeVersion(model.LatestVersion))
			switch loader.Classify(err) {
			case loader.FailureNone:
			case loader.FailurePendingImport:
				t.pending = true
				return nil
			case loader.FailureMissing, loader.FailureOther:
				return err
			}
			t.component = c

			t.history, err = w.objects.GetHistoryIfExist(gctx, c.ID)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return targets, nil
}

// validateTargets rejects a batch with unresolved issues, then a batch with components pending import
func validateTargets(targets []*target, ignoreUnresolved bool) error {
	var withIssues []*loader.Component
	var pending model.IDs
	batch := make(model.IDs, 0, len(targets))
	for _, t := range targets {
		if !t.pending {
			batch = append(batch, t.component.ID)
		}
	}
	for _, t := range targets {
		if t.pending {
			pending = append(pending, t.id)
			continue
		}
		if !ignoreUnresolved {
			flagUnversionedDependencies(t.component, batch)
		}
		if !ignoreUnresolved && t.component.HasIssues() {
			withIssues = append(withIssues, t.component)
		}
		if t.component.FromModel == nil && t.component.ID.HasScope() {
			pending = append(pending, t.component.ID)
		}
	}
	if len(withIssues) > 0 {
		return newMissingDependenciesError(withIssues)
	}
	if len(pending) > 0 {
		return &PendingImportError{IDs: pending.Sorted()}
	}
	return nil
}

// flagUnversionedDependencies reports the dependencies which would be stored without version:
// they have none in the workspace nor in the stored version, and are not versioned by the batch.
func flagUnversionedDependencies(c *loader.Component, batch model.IDs) {
	reported := make(map[string]bool, len(c.Issues))
	for _, issue := range c.Issues {
		reported[issue.Details] = true
	}
	for _, kind := range model.DependencyKinds {
		var stored model.Dependencies
		if c.FromModel != nil {
			stored = c.FromModel.Deps(kind)
		}
		for _, dep := range c.Deps(kind) {
			if dep.ID.HasVersion() || batch.HasWithoutVersion(dep.ID) {
				continue
			}
			if s, ok := stored.Get(dep.ID); ok && s.ID.HasVersion() {
				continue
			}
			if reported[dep.ID.String()] || reported[dep.ID.StringWithoutVersion()] {
				continue
			}
			reported[dep.ID.StringWithoutVersion()] = true
			c.AddIssue(loader.IssueUnversionedDependency, dep.ID.StringWithoutVersion())
		}
	}
}

// planCascade adds to the graph the components which may be versioned because of their dependencies
func (w *Workspace) planCascade(ctx context.Context, g *depGraph, plans map[int]*plan, seeds []int, snap bool) error {
	targets := make(model.IDs, 0, len(seeds))
	for _, n := range seeds {
		targets = append(targets, g.nodes[n].id)
	}
	candidates, err := w.loadStored(ctx, w.PotentialComponentsForAutoTagging(targets))
	if err != nil {
		return err
	}
	for _, s := range candidates {
		pl := &plan{id: s.id, history: s.history, stored: s.version}
		if !snap {
			if pl.version, err = nextVersion(s.history, "", ReleasePatch, false); err != nil {
				return err
			}
		}
		plans[g.add(s.id)] = pl
	}
	return nil
}

// createVersion stores a new version, with its dependencies pointing to the new versions created so far
func (w *Workspace) createVersion(ctx context.Context, pl *plan, p versionParams, newVersions map[string]string, lane *model.Lane) (model.ID, error) {
	var snapshot *model.VersionSnapshot
	if pl.auto() {
		message := p.message
		if message == "" {
			message = autoTagMessage
		}
		snapshot = pl.stored.Clone()
		snapshot.Log = model.NewLog(message, p.author)
	} else {
		for _, rel := range pl.component.SortedContents() {
			if _, err := w.objects.PutObject(ctx, pl.component.Contents[rel]); err != nil {
				return model.ID{}, err
			}
		}
		snapshot = pl.component.ToVersion(model.NewLog(p.message, p.author))
		if from := pl.component.FromModel; from != nil {
			for _, kind := range model.DependencyKinds {
				snapshot.Deps(kind).InheritVersions(from.Deps(kind))
			}
		}
	}
	for _, kind := range model.DependencyKinds {
		snapshot.Deps(kind).UpdateVersions(newVersions)
	}

	if pl.history == nil {
		pl.history = model.NewHistory(pl.id)
	}
	return w.objects.AppendVersion(ctx, pl.history, pl.version, snapshot, lane)
}

// nextVersion computes the tag of a new version.
//
// An exact version must be newer than the latest one, unless ignoreNewest is set. It can
// never replace an existing version.
func nextVersion(history *model.History, exact string, release ReleaseType, ignoreNewest bool) (string, error) {
	latest := ""
	if history != nil {
		latest = history.LatestVersion()
	}

	if exact != "" {
		v, err := semver.StrictNewVersion(exact)
		if err != nil {
			return "", &ValidationError{Subject: exact, Err: status.ErrInvalidVersion.Wrap(err)}
		}
		if history != nil && history.HasVersion(v.String()) {
			return "", &ValidationError{Subject: exact, Err: status.ErrInvalidVersion.Errorf("%s already has this version", history.ID())}
		}
		if latest != "" && !ignoreNewest {
			l, err := semver.NewVersion(latest)
			if err == nil && !v.GreaterThan(l) {
				return "", &ValidationError{Subject: exact, Err: status.ErrInvalidVersion.Errorf("not newer than the latest version %s of %s", latest, history.ID())}
			}
		}
		return v.String(), nil
	}

	if latest == "" {
		return firstVersion, nil
	}
	l, err := semver.NewVersion(latest)
	if err != nil {
		return "", err
	}
	var next semver.Version
	switch release {
	case ReleaseMajor:
		next = l.IncMajor()
	case ReleaseMinor:
		next = l.IncMinor()
	default:
		next = l.IncPatch()
	}
	return next.String(), nil
}
