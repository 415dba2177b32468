//go:build !unix

package matfile

import (
	"errors"
	"os"
)

var errNoMmap = errors.New("matfile: mmap not supported on this platform")

func mapFile(*os.File, int) ([]byte, func() error, error) {
	return nil, nil, errNoMmap
}
