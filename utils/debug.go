package utils

import "os"

// IsDebugEnabled reports whether debug logging is on: either PASTE_DEBUG=1
// or the server is not running in release mode.
func IsDebugEnabled() bool {
	if os.Getenv("PASTE_DEBUG") == "1" {
		return true
	}
	return os.Getenv("GIN_MODE") != "release"
}
