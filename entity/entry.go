package entity

import (
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Separator joins a parent location and a child name
const Separator = "/"

// Kind classifies a directory entry
type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDirectory
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// KindOf classifies a file mode
func KindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// Stat is a POSIX-style metadata record of an entry
type Stat struct {
	Mode    fs.FileMode
	Nlink   uint64
	UID     uint32
	GID     uint32
	Size    int64
	ModTime time.Time
}

// Entry is one child of a listed directory, with its kind and metadata already resolved
type Entry struct {
	Name string
	Kind Kind
	Stat Stat
}

// NewEntry creates an Entry, deriving its kind from the mode bits
func NewEntry(name string, stat Stat) Entry {
	return Entry{
		Name: name,
		Kind: KindOf(stat.Mode),
		Stat: stat,
	}
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

func (e Entry) String() string {
	return fmt.Sprintf("{name: %s, kind: %v, size: %d, modified: %v}", e.Name, e.Kind, e.Stat.Size, e.Stat.ModTime)
}

// Join concatenates a parent location and a child name with a single Separator.
// An empty child yields the parent itself.
func Join(parent, child string) string {
	if child == "" {
		return parent
	}
	if parent == "" {
		return child
	}
	if strings.HasSuffix(parent, Separator) {
		return parent + child
	}
	return parent + Separator + child
}
