package index

import (
	"github.com/mitchellh/mapstructure"
	"github.com/oneconcern/cmon/pkg/model"
)

// FileEntry is a file tracked for a component
type FileEntry struct {
	RelativePath string `mapstructure:"relativePath" json:"relativePath" yaml:"relativePath"`
	Test         bool   `mapstructure:"test" json:"test,omitempty" yaml:"test,omitempty"`
}

// Entry describes where a component lives in the workspace
type Entry struct {
	Scope               string       `mapstructure:"scope" json:"scope,omitempty"`
	Name                string       `mapstructure:"name" json:"name"`
	Version             string       `mapstructure:"version" json:"version,omitempty"`
	RootDir             string       `mapstructure:"rootDir" json:"rootDir,omitempty"`
	Origin              model.Origin `mapstructure:"origin" json:"origin"`
	OnLanesOnly         bool         `mapstructure:"onLanesOnly" json:"onLanesOnly"`
	OriginallySharedDir string       `mapstructure:"originallySharedDir" json:"originallySharedDir,omitempty"`
	MainFile            string       `mapstructure:"mainFile" json:"mainFile,omitempty"`
	Files               []FileEntry  `mapstructure:"files" json:"files,omitempty"`
}

// ID of the tracked component, with the version currently in the workspace
func (e Entry) ID() model.ID {
	return model.ID{Scope: e.Scope, Name: e.Name, Version: e.Version}
}

func (e Entry) key() string {
	return e.ID().StringWithoutVersion()
}

func (e Entry) clone() *Entry {
	c := e
	if e.Files != nil {
		c.Files = append([]FileEntry{}, e.Files...)
	}
	return &c
}

func decodeEntry(raw map[string]interface{}) (*Entry, error) {
	var entry Entry
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &entry,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(raw); err != nil {
		return nil, err
	}
	return &entry, nil
}

func encodeEntry(e *Entry) (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]interface{})
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
