package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/m-manu/rfind/entity"
	rsfs "github.com/m-manu/rfind/fs"
)

// errRemoteAgent marks failures reported by the agent that aren't listing failures
var errRemoteAgent = errors.New("remote agent error")

// AgentClient communicates with a remote rfind agent over SSH
// using the system ssh binary. It implements fs.FileSystem.
type AgentClient struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// NewAgentClient starts the agent process on the remote host via system ssh
// and returns a client to interact with it.
func NewAgentClient(loc Location, explicitKeyPath string, agentPath string) (*AgentClient, error) {
	remoteCmd := agentPath + " --agent"
	cmd := SSHCommand(context.Background(), loc, explicitKeyPath, remoteCmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe failed: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe failed: %w", err)
	}

	// Pass SSH stderr through to our stderr so connection errors are visible
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start remote agent via ssh (%s): %w", remoteCmd, err)
	}

	return newAgentClient(cmd, stdin, stdout), nil
}

func newAgentClient(cmd *exec.Cmd, stdin io.WriteCloser, stdout io.Reader) *AgentClient {
	return &AgentClient{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}
}

// ListDirectory asks the remote agent to list a directory.
func (c *AgentClient) ListDirectory(_ context.Context, location string) ([]entity.Entry, error) {
	resp, err := c.roundTrip(MsgListRequest, ListRequest{Location: location})
	if err != nil {
		var listErr *rsfs.ListError
		if errors.As(err, &listErr) {
			return nil, listErr
		}
		return nil, &rsfs.ListError{Kind: rsfs.ErrUnreachable, Location: location, Err: err}
	}

	var listResp ListResponse
	if err := json.Unmarshal(resp.Payload, &listResp); err != nil {
		return nil, &rsfs.ListError{Kind: rsfs.ErrUnreachable, Location: location,
			Err: fmt.Errorf("bad list response: %w", err)}
	}

	entries := make([]entity.Entry, 0, len(listResp.Entries))
	for _, e := range listResp.Entries {
		entries = append(entries, e.ToEntity())
	}
	return entries, nil
}

// Close sends a quit message and waits for the ssh process to exit.
func (c *AgentClient) Close() error {
	// Best-effort quit
	_ = c.send(MsgQuit, nil)
	_ = c.stdin.Close()
	if c.cmd == nil {
		return nil
	}
	return c.cmd.Wait()
}

func (c *AgentClient) roundTrip(msgType string, payload interface{}) (*Envelope, error) {
	if err := c.send(msgType, payload); err != nil {
		return nil, err
	}
	return c.recv()
}

func (c *AgentClient) send(msgType string, payload interface{}) error {
	var payloadBytes []byte
	if payload != nil {
		var err error
		payloadBytes, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}
	env := Envelope{Type: msgType, Payload: payloadBytes}
	line, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	line = append(line, '\n')
	_, err = c.stdin.Write(line)
	return err
}

func (c *AgentClient) recv() (*Envelope, error) {
	line, err := c.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	line = []byte(strings.TrimSpace(string(line)))

	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if env.Type == MsgError {
		var errResp ErrorResponse
		if err := json.Unmarshal(env.Payload, &errResp); err != nil {
			return nil, fmt.Errorf("%w (unparseable)", errRemoteAgent)
		}
		if errResp.Kind != "" {
			var cause error
			if errResp.Message != "" {
				cause = errors.New(errResp.Message)
			}
			return nil, rsfs.NewListError(errResp.Kind, errResp.Location, cause)
		}
		return nil, fmt.Errorf("%w: %s", errRemoteAgent, errResp.Message)
	}

	return &env, nil
}
