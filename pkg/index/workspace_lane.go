package index

import (
	"os"
	"path/filepath"

	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// WorkspaceLanesDir holds the lane overlays, relative to the workspace root
var WorkspaceLanesDir = filepath.Join(".cmon", "workspace-lanes")

// WorkspaceLane records which components the workspace modified on a lane.
//
// It is local to a workspace, independently from the lane stored in the scope.
type WorkspaceLane struct {
	Name string    `yaml:"name"`
	IDs  model.IDs `yaml:"ids"`

	fs      afero.Fs
	path    string
	changed bool
}

// NewWorkspaceLane creates an overlay for a lane, with a copy of some IDs
func NewWorkspaceLane(fs afero.Fs, root, name string, ids model.IDs) *WorkspaceLane {
	w := &WorkspaceLane{
		Name:    name,
		fs:      fs,
		path:    workspaceLanePath(root, name),
		changed: true,
	}
	if len(ids) > 0 {
		w.IDs = append(model.IDs{}, ids...)
	}
	return w
}

func workspaceLanePath(root, name string) string {
	return filepath.Join(root, WorkspaceLanesDir, name+".yaml")
}

// LoadWorkspaceLane reads the overlay for a lane. An absent overlay is empty.
func LoadWorkspaceLane(fs afero.Fs, root, name string) (*WorkspaceLane, error) {
	w := &WorkspaceLane{
		Name: name,
		fs:   fs,
		path: workspaceLanePath(root, name),
	}
	data, err := afero.ReadFile(fs, w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return nil, err
	}
	if err = yaml.Unmarshal(data, w); err != nil {
		return nil, ErrInvalidDocument.Wrapf(err, "workspace lane %s", name)
	}
	w.Name = name
	return w, nil
}

// AddEntry records a component as modified on the lane, replacing any other version of it
func (w *WorkspaceLane) AddEntry(id model.ID) {
	for i, existing := range w.IDs {
		if existing.IsEqualWithoutVersion(id) {
			if existing != id {
				w.IDs[i] = id
				w.changed = true
			}
			return
		}
	}
	w.IDs = append(w.IDs, id)
	w.changed = true
}

// RemoveEntry forgets a component
func (w *WorkspaceLane) RemoveEntry(id model.ID) {
	if !w.IDs.HasWithoutVersion(id) {
		return
	}
	w.IDs = w.IDs.Without(model.IDs{id})
	w.changed = true
}

// Has tells if a component was modified on the lane
func (w *WorkspaceLane) Has(id model.ID) bool {
	return w.IDs.HasWithoutVersion(id)
}

// Write persists the overlay, when it changed
func (w *WorkspaceLane) Write() error {
	if !w.changed {
		return nil
	}
	data, err := yaml.Marshal(w)
	if err != nil {
		return err
	}
	if err = w.fs.MkdirAll(filepath.Dir(w.path), 0700); err != nil {
		return err
	}
	if err = afero.WriteFile(w.fs, w.path, data, 0600); err != nil {
		return err
	}
	w.changed = false
	return nil
}
