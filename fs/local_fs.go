package fs

import (
	"context"
	"os"

	"github.com/m-manu/rfind/entity"
)

// LocalFS implements FileSystem using standard os.* calls.
type LocalFS struct{}

// NewLocalFS returns a new LocalFS.
func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

func (l *LocalFS) ListDirectory(_ context.Context, location string) ([]entity.Entry, error) {
	dirEntries, err := os.ReadDir(location)
	if err != nil {
		return nil, classifyListError(location, err, l.isDir)
	}
	entries := make([]entity.Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		childLocation := entity.Join(location, d.Name())
		info, infoErr := os.Lstat(childLocation)
		if infoErr != nil {
			return nil, metadataError(childLocation, infoErr)
		}
		entries = append(entries, entity.NewEntry(d.Name(), statFromOS(info)))
	}
	return entries, nil
}

func (l *LocalFS) isDir(location string) (bool, error) {
	info, err := os.Stat(location)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (l *LocalFS) Close() error {
	return nil
}

func statFromOS(info os.FileInfo) entity.Stat {
	stat := entity.Stat{
		Mode:    info.Mode(),
		Nlink:   1,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	fillOwnership(&stat, info)
	return stat
}

// classifyListError tells a missing or unreadable location apart from one
// that exists but isn't a directory.
func classifyListError(location string, err error, isDir func(string) (bool, error)) error {
	if dir, statErr := isDir(location); statErr == nil && !dir {
		return notADirectory(location)
	}
	return unreachable(location, err)
}
