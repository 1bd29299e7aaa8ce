package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	rsfs "github.com/m-manu/rfind/fs"
)

// RunAgent reads JSON-line requests from in, lists directories on fsys,
// and writes JSON-line responses to out. This is invoked on the remote
// side via "rfind --agent".
func RunAgent(ctx context.Context, in io.Reader, out io.Writer, fsys rsfs.FileSystem) error {
	reader := bufio.NewReader(in)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("agent: read error: %w", err)
		}

		line = []byte(strings.TrimSpace(string(line)))
		if len(line) == 0 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			writeError(out, fmt.Sprintf("invalid message: %v", err))
			continue
		}

		switch env.Type {
		case MsgQuit:
			return nil

		case MsgListRequest:
			handleList(ctx, out, fsys, env.Payload)

		default:
			writeError(out, fmt.Sprintf("unknown message type: %s", env.Type))
		}
	}
}

func handleList(ctx context.Context, w io.Writer, fsys rsfs.FileSystem, payload []byte) {
	var req ListRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		writeError(w, fmt.Sprintf("bad list request: %v", err))
		return
	}

	entries, err := fsys.ListDirectory(ctx, req.Location)
	if err != nil {
		errResp := ErrorResponse{
			Message:  err.Error(),
			Kind:     rsfs.KindName(err),
			Location: req.Location,
		}
		var listErr *rsfs.ListError
		if errors.As(err, &listErr) {
			errResp.Location = listErr.Location
			errResp.Message = ""
			if listErr.Err != nil {
				errResp.Message = listErr.Err.Error()
			}
		}
		writeResponse(w, MsgError, errResp)
		return
	}

	resp := ListResponse{Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, EntryFromEntity(e))
	}
	writeResponse(w, MsgListResponse, resp)
}

func writeResponse(w io.Writer, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	env := Envelope{Type: msgType, Payload: data}
	line, _ := json.Marshal(env)
	line = append(line, '\n')
	_, _ = w.Write(line)
}

func writeError(w io.Writer, msg string) {
	writeResponse(w, MsgError, ErrorResponse{Message: msg})
}
