//go:build !unix

package status

import "errors"

var errWouldBlock = errors.New("would block")

// OpenFIFO is not available without named pipes.
func OpenFIFO(path string) (*Writer, error) {
	return nil, ErrFIFOUnsupported
}
