package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/m-manu/rfind/entity"
	rsfs "github.com/m-manu/rfind/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLocalAgent connects an AgentClient to an in-process agent serving the local filesystem
func startLocalAgent(t *testing.T) (*AgentClient, <-chan error) {
	t.Helper()
	serverIn, clientStdin := io.Pipe()
	clientStdout, serverOut := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := RunAgent(context.Background(), serverIn, serverOut, rsfs.NewLocalFS())
		_ = serverOut.Close()
		done <- err
	}()
	return newAgentClient(nil, clientStdin, clientStdout), done
}

func TestAgentClient_ListDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.dat"), []byte("0123456789"), 0600))
	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, "f.dat"), mtime, mtime))

	client, done := startLocalAgent(t)
	entries, err := client.ListDirectory(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	assert.Equal(t, "f.dat", entries[0].Name)
	assert.Equal(t, entity.KindFile, entries[0].Kind)
	assert.Equal(t, int64(10), entries[0].Stat.Size)
	assert.Equal(t, os.FileMode(0600), entries[0].Stat.Mode.Perm())
	assert.True(t, mtime.Equal(entries[0].Stat.ModTime))
	assert.Equal(t, "sub", entries[1].Name)
	assert.Equal(t, entity.KindDirectory, entries[1].Kind)

	_, err = client.ListDirectory(context.Background(), filepath.Join(root, "f.dat"))
	assert.True(t, errors.Is(err, rsfs.ErrNotADirectory))
	var listErr *rsfs.ListError
	require.True(t, errors.As(err, &listErr))
	assert.Equal(t, filepath.Join(root, "f.dat"), listErr.Location)

	_, err = client.ListDirectory(context.Background(), filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, rsfs.ErrUnreachable))
	assert.Contains(t, err.Error(), "missing")

	require.NoError(t, client.Close())
	assert.NoError(t, <-done)
}

func TestRunAgent_BadMessages(t *testing.T) {
	in := strings.NewReader("not json\n\n{\"type\":\"dance\"}\n{\"type\":\"quit\"}\n{\"type\":\"list_request\"}\n")
	var out bytes.Buffer
	require.NoError(t, RunAgent(context.Background(), in, &out, rsfs.NewLocalFS()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for i, expected := range []string{"invalid message", "unknown message type: dance"} {
		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &env))
		assert.Equal(t, MsgError, env.Type)
		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(env.Payload, &errResp))
		assert.Contains(t, errResp.Message, expected)
		assert.Empty(t, errResp.Kind)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	original := entity.NewEntry("link", entity.Stat{
		Mode:    os.ModeSymlink | 0777,
		Nlink:   1,
		UID:     501,
		GID:     20,
		Size:    11,
		ModTime: time.Unix(1_700_000_000, 0),
	})
	data, err := json.Marshal(EntryFromEntity(original))
	require.NoError(t, err)
	var wire Entry
	require.NoError(t, json.Unmarshal(data, &wire))
	restored := wire.ToEntity()
	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, entity.KindSymlink, restored.Kind)
	assert.Equal(t, original.Stat.Mode, restored.Stat.Mode)
	assert.True(t, original.Stat.ModTime.Equal(restored.Stat.ModTime))
	assert.Equal(t, original.Stat.UID, restored.Stat.UID)
}
