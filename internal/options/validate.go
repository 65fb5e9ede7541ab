// Package options provides shared utilities for option validation across packages.
package options

import "fmt"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is
// set; noSourceMsg and multiSourceMsg are the errors for zero sources and
// more than one source respectively.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, hasSource := range sources {
		if hasSource {
			count++
		}
	}

	if count == 0 {
		return fmt.Errorf("%s", noSourceMsg)
	}
	if count > 1 {
		return fmt.Errorf("%s", multiSourceMsg)
	}

	return nil
}
