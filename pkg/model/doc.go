// Package model describes the base objects manipulated by cmon.
//
// The package exposes a model for component metadata.
//
// The object model for cmon is composed of:
//
//  IDs:
//    A component is addressed by an optional scope, a name and a version.
//    Equality ignores the version unless explicitly compared with it.
//    "latest" is an alias resolved at load time, never a storage key.
//
//  Version snapshots:
//    An immutable, content-hashed description of one version of a component:
//    files, dependencies (runtime, dev, compiler, tester), package dependencies and a log entry.
//    This is analogous to a commit in git.
//
//  Histories:
//    The append-only record of all versions created for a component, with a head
//    pointer advanced by tags and snaps.
//
//  Lanes:
//    A named set of pointers from components to version references, analogous to branches in git.
//    The default lane ("main") is the trunk and has no stored lane object.
package model
