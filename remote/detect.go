package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-manu/rfind/fmte"
)

// ProbeRemoteAgent checks whether rfind is available on the remote host.
// Returns true if the agent can be used (remote-execution mode).
func ProbeRemoteAgent(loc Location, explicitKeyPath string, agentPath string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := SSHCommand(ctx, loc, explicitKeyPath, agentPath+" --version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		fmte.PrintfV("Remote agent probe failed: %v\n", err)
		return false
	}
	version := strings.TrimSpace(string(output))
	fmte.PrintfV("Remote rfind detected: %s\n", version)
	return true
}

// SetupRemote determines the mode (agent or SFTP) and optionally starts an agent.
// Returns either an AgentClient (remote-execution) or nil (use SFTP).
func SetupRemote(loc Location, explicitKeyPath string, agentPath string, forceSFTP bool,
	probeTimeout time.Duration) (*AgentClient, error) {
	if forceSFTP {
		fmte.PrintfV("SFTP mode forced\n")
		return nil, nil
	}

	if ProbeRemoteAgent(loc, explicitKeyPath, agentPath, probeTimeout) {
		client, err := NewAgentClient(loc, explicitKeyPath, agentPath)
		if err != nil {
			return nil, fmt.Errorf("failed to start remote agent: %w", err)
		}
		fmte.PrintfV("Using remote-execution mode\n")
		return client, nil
	}

	fmte.PrintfV("rfind not found on remote, falling back to SFTP mode\n")
	return nil, nil
}
