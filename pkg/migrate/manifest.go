package migrate

import (
	"strings"

	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/model"
)

// DefaultManifest lists the migrations of the workspace index, in order
func DefaultManifest() Manifest {
	return Manifest{
		{
			Trigger:   "0.10.9",
			Name:      "legacy-ids-and-origin",
			Transform: legacyIDsAndOrigin,
		},
		{
			Trigger:   "0.11.1",
			Name:      "strip-root-dir-trailing-slash",
			Transform: stripRootDirTrailingSlash,
		},
		{
			Trigger:   "1.2.0",
			Name:      "drop-dist-and-detached-compiler",
			Transform: dropDistAndDetachedCompiler,
		},
	}
}

// legacyIDsAndOrigin rekeys entries stored under a versioned key, and normalizes the origin.
//
// Legacy keys read as scope/name@version when they carry a version, name otherwise.
// Legacy origins were lower case, or absent for components which were not imported.
func legacyIDsAndOrigin(doc index.Document) (index.Document, error) {
	entries := make(map[string]map[string]interface{}, len(doc.Entries))
	for key, entry := range doc.Entries {
		if _, hasName := entry["name"]; !hasName {
			id := parseLegacyKey(key)
			entry["name"] = id.Name
			if id.Scope != "" {
				entry["scope"] = id.Scope
			}
			if id.Version != "" {
				entry["version"] = id.Version
			}
		}

		origin, _ := entry["origin"].(string)
		origin = strings.ToUpper(origin)
		if !model.Origin(origin).IsValid() {
			origin = string(model.Authored)
			if _, scoped := entry["scope"]; scoped {
				origin = string(model.Imported)
			}
		}
		entry["origin"] = origin
		delete(entry, "exported")

		entries[entryKey(entry)] = entry
	}
	doc.Entries = entries
	return doc, nil
}

func parseLegacyKey(key string) model.ID {
	var id model.ID
	if idx := strings.LastIndex(key, model.VersionDelimiter); idx > 0 {
		key, id.Version = key[:idx], key[idx+1:]
		if parts := strings.SplitN(key, "/", 2); len(parts) == 2 {
			id.Scope, key = parts[0], parts[1]
		}
	}
	id.Name = key
	return id
}

func entryKey(entry map[string]interface{}) string {
	scope, _ := entry["scope"].(string)
	name, _ := entry["name"].(string)
	return model.ID{Scope: scope, Name: name}.StringWithoutVersion()
}

func stripRootDirTrailingSlash(doc index.Document) (index.Document, error) {
	for _, entry := range doc.Entries {
		for _, field := range []string{"rootDir", "originallySharedDir"} {
			dir, ok := entry[field].(string)
			if !ok {
				continue
			}
			dir = strings.TrimRight(strings.ReplaceAll(dir, `\`, "/"), "/")
			if dir == "" {
				delete(entry, field)
				continue
			}
			entry[field] = dir
		}
	}
	return doc, nil
}

func dropDistAndDetachedCompiler(doc index.Document) (index.Document, error) {
	for _, entry := range doc.Entries {
		delete(entry, "mainDistFile")
		delete(entry, "detachedCompiler")
		if _, ok := entry["onLanesOnly"]; !ok {
			entry["onLanesOnly"] = false
		}
	}
	return doc, nil
}
