// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
)

// NewKey tells a Put operation whether the key is expected to be new
type NewKey bool

const (
	// NoOverWrite makes Put fail with status.ErrExists when the key is already present
	NoOverWrite NewKey = true

	// OverWrite makes Put replace any existing content
	OverWrite NewKey = false
)

// Store implementations know how to write entries to a K/V model.
//
// Typically this is something file system-like. Examples are a local FS, NFS, ...
// Implementations of this interface are assumed to be fairly simple: keys are
// slash-separated relative paths and values are opaque bytes.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, NewKey) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	// KeysPrefix lists keys starting with prefix, by pages of at most count keys.
	//
	// The returned token is empty when there is no more keys to list. When a delimiter
	// is specified, keys are folded on the first occurrence of the delimiter after the prefix.
	KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error)
	Clear(context.Context) error
}

// ReadAll fetches a whole object from a store
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return ioutil.ReadAll(reader)
}

// ReadTee reads from a source and duplicates the output to another destination store
func ReadTee(ctx context.Context, sStore Store, source string, dStore Store, destination string, mode NewKey) ([]byte, error) {
	object, err := ReadAll(ctx, sStore, source)
	if err != nil {
		return nil, err
	}
	err = dStore.Put(ctx, destination, bytes.NewReader(object), mode)
	if err != nil {
		return nil, err
	}
	return object, nil
}

// PipeIO copies a reader into a writer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	return io.Copy(writer, reader)
}
