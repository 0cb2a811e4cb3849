// Package index maintains the workspace index: the mapping from component IDs
// to their location and origin in the workspace.
//
// The index is persisted as a single JSON document at the root of the workspace,
// keyed by versionless component ID, plus a "version" key stamping the schema version.
//
// Components modified on a lane are recorded in a workspace lane overlay, one YAML
// document per lane.
//
// The index is not safe for concurrent use: a workspace has a single writer.
package index
