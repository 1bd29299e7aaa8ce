//go:build windows

package fs

import (
	"os"

	"github.com/m-manu/rfind/entity"
)

// Windows has no POSIX owner ids, so uid/gid stay 0.
func fillOwnership(_ *entity.Stat, _ os.FileInfo) {
}
