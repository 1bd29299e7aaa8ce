package service

import (
	"context"
	"fmt"

	"github.com/m-manu/rfind/entity"
	"github.com/m-manu/rfind/filter"
	"github.com/m-manu/rfind/format"
	rsfs "github.com/m-manu/rfind/fs"
	"github.com/m-manu/rfind/lib"
)

// Stats summarizes what a traversal has seen
type Stats struct {
	Directories int
	Entries     int
	Displayed   int
	TotalSize   int64
}

// TraversalError aborts a traversal. It names the directory whose listing failed.
type TraversalError struct {
	RelativePath string
	Location     string
	Err          error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("error listing directory %s: %v", e.Location, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// Finder walks a directory tree on a FileSystem, one directory listing at a time
// (Very similar to `find` command on unix-like operating systems)
type Finder struct {
	FS        rsfs.FileSystem
	Filters   filter.Chain
	Formatter format.Formatter
}

// Find lists every directory reachable from root and calls emit with the formatted
// line of each entry the filter chain lets through. Paths are relative to root.
//
// Directories are visited in last-in-first-out order: after a listing, the directory
// found last is listed next. Filters only affect what is emitted; every directory is
// traversed regardless. The first listing error (or emit error) ends the traversal.
func (f *Finder) Find(ctx context.Context, root string, emit func(line string) error) (Stats, error) {
	var stats Stats
	formatter := f.Formatter
	if formatter == nil {
		formatter = format.ShortFormatter{}
	}
	remaining := lib.NewStack("")
	for {
		relativePath, ok := remaining.Pop()
		if !ok {
			return stats, nil
		}
		location := entity.Join(root, relativePath)
		entries, err := f.FS.ListDirectory(ctx, location)
		if err != nil {
			return stats, &TraversalError{RelativePath: relativePath, Location: location, Err: err}
		}
		stats.Directories++
		for _, e := range entries {
			childPath := entity.Join(relativePath, e.Name)
			stats.Entries++
			if !e.IsDir() {
				stats.TotalSize += e.Stat.Size
			}
			if f.Filters.ShouldDisplay(e) {
				if emitErr := emit(formatter.Format(childPath, e)); emitErr != nil {
					return stats, fmt.Errorf("error writing output: %w", emitErr)
				}
				stats.Displayed++
			}
			if e.IsDir() {
				remaining.Push(childPath)
			}
		}
	}
}
