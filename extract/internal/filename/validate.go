// Package filename implements the syntactic entry-name validator: the
// cheapest, strictest check in the policy chain, run before any
// filesystem interaction. Entries are treated as literal bytes; there is
// no percent-decoding and no Unicode normalization.
package filename

import (
	"strings"
	"unicode"

	"github.com/archivekit/extract/internal/errtypes"
)

const (
	// maxNameBytes is the total byte-length ceiling for an entry name.
	maxNameBytes = 1024
	// maxComponentBytes is the byte-length ceiling for a single
	// slash-separated path component.
	maxComponentBytes = 255
)

// reservedDeviceNames are the Windows reserved device names, matched
// case-insensitively against a path component's base (the portion before
// its first '.').
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Validate rejects syntactically dangerous entry names. It returns nil
// when name is safe to pass on to the path jail, or an
// *errtypes.InvalidFilenameError describing the first rule violated.
func Validate(name string) error {
	if name == "" {
		return &errtypes.InvalidFilenameError{Entry: name, Reason: "name is empty"}
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return &errtypes.InvalidFilenameError{Entry: name, Reason: "name contains a control character"}
		}
	}

	if strings.ContainsRune(name, '\\') {
		return &errtypes.InvalidFilenameError{Entry: name, Reason: "name contains a backslash"}
	}

	if strings.HasPrefix(name, "/") {
		return &errtypes.InvalidFilenameError{Entry: name, Reason: "name is an absolute path"}
	}

	if len(name) > maxNameBytes {
		return &errtypes.InvalidFilenameError{
			Entry:  name,
			Reason: "name exceeds the maximum total length",
		}
	}

	for _, component := range strings.Split(name, "/") {
		if len(component) > maxComponentBytes {
			return &errtypes.InvalidFilenameError{
				Entry:  name,
				Reason: "path component exceeds the maximum component length",
			}
		}

		if isReservedDeviceName(component) {
			return &errtypes.InvalidFilenameError{
				Entry:  name,
				Reason: "path component is a reserved device name",
			}
		}
	}

	return nil
}

// isReservedDeviceName reports whether component's base name (the part
// before its first '.') case-folds to a Windows reserved device name.
func isReservedDeviceName(component string) bool {
	base := component
	if idx := strings.IndexByte(component, '.'); idx >= 0 {
		base = component[:idx]
	}

	_, reserved := reservedDeviceNames[strings.ToUpper(base)]
	return reserved
}
