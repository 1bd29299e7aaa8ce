//go:build !windows

package fs

import (
	"os"
	"syscall"

	"github.com/m-manu/rfind/entity"
)

func fillOwnership(stat *entity.Stat, info os.FileInfo) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	stat.Nlink = uint64(sys.Nlink)
	stat.UID = sys.Uid
	stat.GID = sys.Gid
}
