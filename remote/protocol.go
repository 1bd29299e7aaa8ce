package remote

import (
	"io/fs"
	"time"

	"github.com/m-manu/rfind/entity"
)

// Message types for the agent protocol (JSON-lines over SSH stdin/stdout).

const (
	MsgListRequest  = "list_request"
	MsgListResponse = "list_response"
	MsgQuit         = "quit"
	MsgError        = "error"
)

// Envelope wraps every message.
type Envelope struct {
	Type string `json:"type"`
	// Payload is one of the *Request/*Response structs, encoded as raw JSON.
	Payload []byte `json:"payload,omitempty"`
}

// ListRequest asks the agent to list one directory.
type ListRequest struct {
	Location string `json:"location"`
}

// Entry mirrors entity.Entry for JSON transport.
type Entry struct {
	Name              string `json:"name"`
	Mode              uint32 `json:"mode"`
	Nlink             uint64 `json:"nlink"`
	UID               uint32 `json:"uid"`
	GID               uint32 `json:"gid"`
	Size              int64  `json:"size"`
	ModifiedTimestamp int64  `json:"modified_timestamp"` // unix epoch seconds
}

// ListResponse returns the entries of a directory in listing order.
type ListResponse struct {
	Entries []Entry `json:"entries"`
}

// ErrorResponse returns an error message. Kind is the listing failure kind
// (see fs.KindName) when the error comes from a listing.
type ErrorResponse struct {
	Message  string `json:"message"`
	Kind     string `json:"kind,omitempty"`
	Location string `json:"location,omitempty"`
}

// Helper conversions between protocol types and entity types.

func EntryFromEntity(e entity.Entry) Entry {
	return Entry{
		Name:              e.Name,
		Mode:              uint32(e.Stat.Mode),
		Nlink:             e.Stat.Nlink,
		UID:               e.Stat.UID,
		GID:               e.Stat.GID,
		Size:              e.Stat.Size,
		ModifiedTimestamp: e.Stat.ModTime.Unix(),
	}
}

func (e Entry) ToEntity() entity.Entry {
	return entity.NewEntry(e.Name, entity.Stat{
		Mode:    fs.FileMode(e.Mode),
		Nlink:   e.Nlink,
		UID:     e.UID,
		GID:     e.GID,
		Size:    e.Size,
		ModTime: time.Unix(e.ModifiedTimestamp, 0),
	})
}
