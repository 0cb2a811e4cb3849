// Package config reads and writes the configuration of a workspace.
package config

import (
	"os"
	"path/filepath"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// FileName of the workspace configuration, at the root of the workspace
const FileName = "cmon.yaml"

const (
	defaultComponentsDir = "components"
	defaultPackagesDir   = "node_modules/@cmon"
	defaultObjectsDir    = ".cmon/objects"
)

// ErrInvalidConfig indicates that the workspace configuration cannot be read
var ErrInvalidConfig = errors.New("invalid workspace configuration")

// Workspace configuration
type Workspace struct {
	// DefaultScope is given to components which were never exported
	DefaultScope string `mapstructure:"defaultScope" json:"defaultScope,omitempty" yaml:"defaultScope,omitempty"`

	// ComponentsDir is where new components are created, relative to the workspace root
	ComponentsDir string `mapstructure:"componentsDir" json:"componentsDir,omitempty" yaml:"componentsDir,omitempty"`

	// PackagesDir is where components are installed as packages
	PackagesDir string `mapstructure:"packagesDir" json:"packagesDir,omitempty" yaml:"packagesDir,omitempty"`

	// ObjectsDir holds the local scope
	ObjectsDir string `mapstructure:"objectsDir" json:"objectsDir,omitempty" yaml:"objectsDir,omitempty"`

	// Remote is the path to a remote scope, to import components from
	Remote string `mapstructure:"remote" json:"remote,omitempty" yaml:"remote,omitempty"`

	BindingPrefix string `mapstructure:"bindingPrefix" json:"bindingPrefix,omitempty" yaml:"bindingPrefix,omitempty"`
}

// Default configuration
func Default() Workspace {
	var w Workspace
	w.applyDefaults()
	return w
}

func (w *Workspace) applyDefaults() {
	if w.ComponentsDir == "" {
		w.ComponentsDir = defaultComponentsDir
	}
	if w.PackagesDir == "" {
		w.PackagesDir = defaultPackagesDir
	}
	if w.ObjectsDir == "" {
		w.ObjectsDir = defaultObjectsDir
	}
}

// Exists tells if a workspace configuration lives at root
func Exists(fs afero.Fs, root string) (bool, error) {
	return afero.Exists(fs, filepath.Join(root, FileName))
}

// Load the configuration of the workspace at root. A missing configuration yields defaults.
func Load(fs afero.Fs, root string) (Workspace, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Workspace{}, err
	}
	var w Workspace
	if err = yaml.UnmarshalStrict(data, &w); err != nil {
		return Workspace{}, ErrInvalidConfig.Wrap(err)
	}
	w.applyDefaults()
	return w, nil
}

// Write the configuration of the workspace at root
func (w Workspace) Write(fs afero.Fs, root string) error {
	data, err := yaml.Marshal(w)
	if err != nil {
		return err
	}
	if err = fs.MkdirAll(root, 0700); err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(root, FileName), data, 0600)
}
