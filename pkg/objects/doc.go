// Package objects persists the versioning objects of a scope.
//
// Objects are stored in a key/value store:
//
//   objects/{ab}/{cdef...}          content-addressed blobs: version snapshots and file contents
//   components/{scope}/{name}.json  the history of a component
//   lanes/{name}.json               lane descriptors
//   scope/current-lane              the name of the checked out lane
//
// Blobs are immutable. Histories and lanes are mutable pointers to blobs.
package objects
