package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme says which storage layer serves a Location
type Scheme int

const (
	SchemeLocal Scheme = iota
	SchemeSSH
	SchemeS3
)

func (s Scheme) String() string {
	switch s {
	case SchemeSSH:
		return "ssh"
	case SchemeS3:
		return "s3"
	default:
		return "local"
	}
}

const (
	fileURLPrefix = "file://"
	s3URLPrefix   = "s3://"
)

// Location represents a local path, a remote user@host:path or an s3://bucket/prefix.
type Location struct {
	Scheme Scheme
	User   string // empty = current user
	Host   string
	Port   int    // 0 = default (22)
	Bucket string // S3 only
	Path   string // for S3, the key prefix with a leading "/"
}

// IsRemote is true for locations reached over ssh
func (l Location) IsRemote() bool {
	return l.Scheme == SchemeSSH
}

// ParseLocation parses a CLI argument into a Location.
//
// Rules:
//   - Starts with "s3://" → S3 bucket, optionally followed by a key prefix
//   - Starts with "file://", "/", "./", or "../" → local
//   - Contains ":" → remote (user@host:path or user@host:port:path)
//   - Everything else → local
func ParseLocation(arg string) (Location, error) {
	if arg == "" {
		return Location{}, fmt.Errorf("empty path argument")
	}

	if strings.HasPrefix(arg, s3URLPrefix) {
		return parseS3Location(arg)
	}

	if strings.HasPrefix(arg, fileURLPrefix) {
		p := strings.TrimPrefix(arg, fileURLPrefix)
		if p == "" {
			return Location{}, fmt.Errorf("empty path in %q", arg)
		}
		return Location{Path: p}, nil
	}

	// Clearly local paths
	if strings.HasPrefix(arg, "/") || strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") {
		return Location{Path: arg}, nil
	}

	// Check for remote format: [user@]host:[port:]path
	colonIdx := strings.Index(arg, ":")
	if colonIdx < 0 {
		// No colon → local
		return Location{Path: arg}, nil
	}

	hostPart := arg[:colonIdx]
	rest := arg[colonIdx+1:]

	if hostPart == "" {
		return Location{}, fmt.Errorf("empty host in remote path %q", arg)
	}

	loc := Location{Scheme: SchemeSSH}

	// Parse user@host
	if atIdx := strings.Index(hostPart, "@"); atIdx >= 0 {
		loc.User = hostPart[:atIdx]
		loc.Host = hostPart[atIdx+1:]
	} else {
		loc.Host = hostPart
	}

	if loc.Host == "" {
		return Location{}, fmt.Errorf("empty host in remote path %q", arg)
	}

	// Check if rest starts with port:path  (digits followed by colon)
	if secondColon := strings.Index(rest, ":"); secondColon > 0 {
		possiblePort := rest[:secondColon]
		if port, err := strconv.Atoi(possiblePort); err == nil && port > 0 && port <= 65535 {
			loc.Port = port
			rest = rest[secondColon+1:]
		}
	}

	if rest == "" {
		return Location{}, fmt.Errorf("empty path in remote spec %q", arg)
	}

	loc.Path = rest
	return loc, nil
}

func parseS3Location(arg string) (Location, error) {
	rest := strings.TrimPrefix(arg, s3URLPrefix)
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("empty bucket in %q", arg)
	}
	return Location{
		Scheme: SchemeS3,
		Bucket: bucket,
		Path:   "/" + strings.Trim(prefix, "/"),
	}, nil
}

// SSHSpec returns a string like "user@host" or "host" suitable for display and ssh commands.
func (l Location) SSHSpec() string {
	if l.User != "" {
		return l.User + "@" + l.Host
	}
	return l.Host
}

func (l Location) String() string {
	switch l.Scheme {
	case SchemeSSH:
		if l.Port != 0 {
			return fmt.Sprintf("%s:%d:%s", l.SSHSpec(), l.Port, l.Path)
		}
		return l.SSHSpec() + ":" + l.Path
	case SchemeS3:
		return s3URLPrefix + l.Bucket + l.Path
	default:
		return l.Path
	}
}
