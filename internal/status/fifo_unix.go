//go:build unix

package status

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var errWouldBlock = unix.EAGAIN

// fifo writes straight to a non-blocking descriptor so a full pipe returns
// EAGAIN instead of parking in the runtime poller.
type fifo struct {
	fd int
}

func (f *fifo) Write(p []byte) (int, error) {
	n, err := unix.Write(f.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (f *fifo) Close() error {
	return unix.Close(f.fd)
}

// OpenFIFO opens the named pipe at path for writing, creating it if needed.
// It is opened read-write so the open neither blocks nor fails while no
// reader is attached.
func OpenFIFO(path string) (*Writer, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := unix.Mkfifo(path, 0600); err != nil {
			return nil, fmt.Errorf("failed to create status fifo '%s': %w", path, err)
		}
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open status fifo '%s': %w", path, err)
	}
	return New(&fifo{fd: fd}), nil
}
