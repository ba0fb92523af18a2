//go:build noxlsx

package export

import "io"

// WriteXLSX reports the backend as unavailable in noxlsx builds.
func WriteXLSX(io.Writer, Table) error { return ErrBackendUnavailable }
