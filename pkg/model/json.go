package model

import jsoniter "github.com/json-iterator/go"

// canonical encoding sorts map keys, so that equal documents serialize identically
var canonical = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalCanonical serializes an object with sorted map keys
func MarshalCanonical(v interface{}) ([]byte, error) {
	return canonical.Marshal(v)
}

// Unmarshal an object serialized with MarshalCanonical
func Unmarshal(data []byte, v interface{}) error {
	return canonical.Unmarshal(data, v)
}
