package format

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/m-manu/rfind/entity"
)

// RecentThreshold is how old an entry may be for the long listing to show
// the time of day instead of the year (180 days)
const RecentThreshold = 15_552_000 * time.Second

const (
	recentTimeLayout = "Jan 2 15:04"
	oldTimeLayout    = "Jan 2  2006"
	sizeWidth        = 12
)

// Formatter renders an entry found at a relative path into a line of output
type Formatter interface {
	Format(path string, e entity.Entry) string
}

// ShortFormatter prints bare paths
type ShortFormatter struct{}

func (ShortFormatter) Format(path string, _ entity.Entry) string {
	return path
}

// LongFormatter prints an `ls -l`-like record: kind and permissions, link count,
// gid, uid, modification time, size and path
type LongFormatter struct {
	// Now returns the reference time for deciding on the time-of-day form; time.Now if nil
	Now func() time.Time
	// Location is the time zone of the printed time; time.Local if nil
	Location *time.Location
}

// NewLongFormatter creates a LongFormatter using the wall clock and local time zone
func NewLongFormatter() LongFormatter {
	return LongFormatter{Now: time.Now, Location: time.Local}
}

func (f LongFormatter) Format(path string, e entity.Entry) string {
	size := e.Stat.Size
	if e.Kind == entity.KindDirectory {
		size = 0
	}
	var sb strings.Builder
	sb.Grow(64 + len(path))
	sb.WriteByte(kindFlag(e.Kind))
	sb.WriteString(Permissions(e.Stat.Mode))
	_, _ = fmt.Fprintf(&sb, "\t%d\t%d\t%d\t%s\t%*d\t%s",
		e.Stat.Nlink, e.Stat.GID, e.Stat.UID, f.modTime(e.Stat.ModTime), sizeWidth, size, path)
	return sb.String()
}

func (f LongFormatter) modTime(t time.Time) string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	loc := time.Local
	if f.Location != nil {
		loc = f.Location
	}
	// whole seconds, as a stat record has them
	age := now().Unix() - t.Unix()
	if age <= int64(RecentThreshold/time.Second) {
		return t.In(loc).Format(recentTimeLayout)
	}
	return t.In(loc).Format(oldTimeLayout)
}

func kindFlag(k entity.Kind) byte {
	switch k {
	case entity.KindDirectory:
		return 'd'
	case entity.KindSymlink:
		return 'l'
	default:
		return '-'
	}
}

// Permissions renders the owner, group and other read/write/execute bits, e.g. "rwxr-x---"
func Permissions(mode fs.FileMode) string {
	const rwx = "rwx"
	var buf [9]byte
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			buf[i] = rwx[i%3]
		} else {
			buf[i] = '-'
		}
	}
	return string(buf[:])
}
