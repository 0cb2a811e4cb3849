package model

import (
	"encoding/hex"

	blake2b "github.com/minio/blake2b-simd"
)

const refSize = 32

// RefSizeHex is the length of the hex representation of a Ref
const RefSizeHex = 2 * refSize

// Ref is the hex-encoded blake2b hash of a stored object
type Ref string

// NewRef computes the reference for some object content
func NewRef(data []byte) Ref {
	sum := blake2b.Sum256(data)
	return Ref(hex.EncodeToString(sum[:]))
}

func (r Ref) String() string {
	return string(r)
}

// IsEmpty tells if this reference is unset
func (r Ref) IsEmpty() bool {
	return r == ""
}

// IsHash tells if a version string is a snap hash rather than a semantic version
func IsHash(version string) bool {
	if len(version) != RefSizeHex {
		return false
	}
	_, err := hex.DecodeString(version)
	return err == nil
}
