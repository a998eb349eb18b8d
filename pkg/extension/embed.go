package extension

import (
	_ "embed"
)

// Filename is the name of the extracted archive.
const Filename = "JSErrorCollector.xpi"

// archive is built from the extension/ directory at the repository root.
//
//go:embed JSErrorCollector.xpi
var archive []byte

// Archive returns a copy of the embedded extension archive.
func Archive() []byte {
	out := make([]byte, len(archive))
	copy(out, archive)
	return out
}
