package index

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/cmon/pkg/model"
)

const versionKey = "version"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the raw form of the persisted index, as seen by schema migrations
type Document struct {
	Version string
	Entries map[string]map[string]interface{}
}

// ParseDocument reads a persisted index.
//
// A document without version is assumed to use the legacy schema.
func ParseDocument(data []byte) (Document, error) {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, ErrInvalidDocument.Wrap(err)
	}

	doc := Document{
		Version: model.LegacySchemaVersion,
		Entries: make(map[string]map[string]interface{}, len(raw)),
	}
	for k, v := range raw {
		if k == versionKey {
			version, ok := v.(string)
			if !ok {
				return Document{}, ErrInvalidDocument.Errorf("version is not a string: %v", v)
			}
			doc.Version = version
			continue
		}
		entry, ok := v.(map[string]interface{})
		if !ok {
			return Document{}, ErrInvalidDocument.Errorf("entry %q is not an object", k)
		}
		doc.Entries[k] = entry
	}
	return doc, nil
}

// Marshal the document, with sorted keys
func (d Document) Marshal() ([]byte, error) {
	raw := make(map[string]interface{}, len(d.Entries)+1)
	for k, v := range d.Entries {
		if k == versionKey {
			return nil, ErrReservedName.Errorf("entry %q", k)
		}
		raw[k] = v
	}
	raw[versionKey] = d.Version
	return json.MarshalIndent(raw, "", "    ")
}

// Clone deep-copies a document
func (d Document) Clone() (Document, error) {
	data, err := d.Marshal()
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(data)
}
