package model

const (
	// CurrentSchemaVersion is the version stamped on the workspace index by this release.
	//
	// Change log from 1.2.0:
	// - lane overlays moved to their own documents
	CurrentSchemaVersion = "1.4.0"

	// LegacySchemaVersion is assumed for index documents which carry no version
	LegacySchemaVersion = "0.10.9"
)
