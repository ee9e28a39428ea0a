package gitvcs

import _ "embed"

// Version is the release version of gitvcs.
//
//go:embed VERSION
var Version string
