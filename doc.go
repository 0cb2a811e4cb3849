/*
Package cmon provides CLI tooling to version the components of a workspace.

A workspace tracks components living in directories. Each component gets immutable
versions, either tagged with a semantic version or snapped with the hash of its
content. Versioning a component also versions the components which depend on it,
so that the workspace stays consistent.
*/
package cmon
