package fs

import (
	"context"
	"os"

	"github.com/m-manu/rfind/entity"
	"github.com/pkg/sftp"
)

// SFTPFS implements FileSystem over an SFTP connection.
type SFTPFS struct {
	client *sftp.Client
}

// NewSFTPFS wraps an existing sftp.Client in a FileSystem.
func NewSFTPFS(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

// ListDirectory lists a remote directory. SFTP READDIR replies carry lstat
// attributes, so no extra round trip per entry is needed.
func (s *SFTPFS) ListDirectory(_ context.Context, location string) ([]entity.Entry, error) {
	infos, err := s.client.ReadDir(location)
	if err != nil {
		return nil, classifyListError(location, err, s.isDir)
	}
	entries := make([]entity.Entry, 0, len(infos))
	for _, info := range infos {
		if info.Name() == "." || info.Name() == ".." {
			continue
		}
		entries = append(entries, entity.NewEntry(info.Name(), sftpStat(info)))
	}
	return entries, nil
}

func (s *SFTPFS) isDir(location string) (bool, error) {
	info, err := s.client.Stat(location)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (s *SFTPFS) Close() error {
	return s.client.Close()
}

// sftpStat converts attributes of a READDIR reply. SFTP v3 has no link count.
func sftpStat(info os.FileInfo) entity.Stat {
	stat := entity.Stat{
		Mode:    info.Mode(),
		Nlink:   1,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if sys, ok := info.Sys().(*sftp.FileStat); ok {
		stat.UID = sys.UID
		stat.GID = sys.GID
	}
	return stat
}
