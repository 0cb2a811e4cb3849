package model

import "github.com/oneconcern/cmon/pkg/errors"

var (
	// ErrInvalidLaneName is returned when a lane name does not fit the safe character set
	ErrInvalidLaneName = errors.New("invalid lane name")

	// ErrInvalidArchivePath is returned when an archive path cannot be parsed
	ErrInvalidArchivePath = errors.New("path is invalid")

	// ErrUnknownVersion is returned when a history does not hold a version
	ErrUnknownVersion = errors.New("unknown version")
)
