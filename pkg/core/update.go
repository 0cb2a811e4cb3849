package core

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/cmon/pkg/loader/fsloader"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type versionedComponent struct {
	id      model.ID
	history *model.History
}

// updateComponentsVersions points the workspace to new versions.
//
// Components versioned on a lane which never reached the default lane are flagged as only
// available on lanes. Installed components get the version in their package descriptor.
func (w *Workspace) updateComponentsVersions(ctx context.Context, versioned []versionedComponent, lane *model.Lane) error {
	onDefault := lane == nil || lane.LaneID().IsDefault()
	for _, v := range versioned {
		if err := w.index.UpdateComponentID(v.id); err != nil {
			return err
		}
		if !onDefault && !v.history.HasSnapHead() {
			if err := w.index.SetOnLanesOnly(v.id, true); err != nil {
				return err
			}
		}

		entry, ok := w.index.GetWithoutVersion(v.id)
		if !ok {
			continue
		}
		dir := w.packageDir(entry.RootDir, v.id)
		if dir == "" {
			continue
		}
		if err := w.updatePackageVersion(filepath.Join(w.root, filepath.FromSlash(dir), fsloader.PackageFile), v.id.Version); err != nil {
			return err
		}
	}
	return w.index.Write()
}

// packageDir is where the package descriptor of a component lives, relative to the workspace root
func (w *Workspace) packageDir(rootDir string, id model.ID) string {
	if rootDir != "" {
		return rootDir
	}
	if !id.HasScope() {
		return ""
	}
	return path.Join(filepath.ToSlash(w.config.PackagesDir), id.Scope+"."+strings.ReplaceAll(id.Name, "/", "."))
}

// updatePackageVersion rewrites the version in a package descriptor, when there is one
func (w *Workspace) updatePackageVersion(file, version string) error {
	data, err := afero.ReadFile(w.fs, file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	descriptor := make(map[string]interface{})
	if err = json.Unmarshal(data, &descriptor); err != nil {
		return err
	}
	descriptor["version"] = version
	data, err = json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return err
	}
	w.l.Debug("updating package version", zap.String("file", file), zap.String("version", version))
	return afero.WriteFile(w.fs, file, append(data, '\n'), 0600)
}
