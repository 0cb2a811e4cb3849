// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the local file system backend, over any afero.Fs.
package storage
