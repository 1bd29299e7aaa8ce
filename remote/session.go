package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/m-manu/rfind/config"
	rsfs "github.com/m-manu/rfind/fs"
	"github.com/pkg/sftp"
)

// Open connects to the storage layer serving loc. It returns the FileSystem,
// which the caller must Close, and the location of loc's root on it.
func Open(ctx context.Context, loc Location, cfg *config.Config) (rsfs.FileSystem, string, error) {
	switch loc.Scheme {
	case SchemeLocal:
		return rsfs.NewLocalFS(), loc.Path, nil
	case SchemeS3:
		client, err := newS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return rsfs.NewS3FS(client, loc.Bucket), loc.Path, nil
	case SchemeSSH:
		agentClient, err := SetupRemote(loc, cfg.SSH.KeyPath, cfg.SSH.AgentPath, cfg.SSH.ForceSFTP, cfg.SSH.ProbeTimeout)
		if err != nil {
			return nil, "", err
		}
		if agentClient != nil {
			return agentClient, loc.Path, nil
		}
		sftpFS, err := openSFTP(loc, cfg.SSH.KeyPath)
		if err != nil {
			return nil, "", err
		}
		return sftpFS, loc.Path, nil
	default:
		return nil, "", fmt.Errorf("unsupported location: %v", loc)
	}
}

// sftpSession is an SFTPFS whose Close also ends the ssh process carrying it
type sftpSession struct {
	*rsfs.SFTPFS
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func (s *sftpSession) Close() error {
	closeErr := s.SFTPFS.Close()
	_ = s.stdin.Close()
	_ = s.cmd.Wait()
	return closeErr
}

// openSFTP launches ssh with the sftp subsystem and pipes an sftp client through it
func openSFTP(loc Location, explicitKeyPath string) (*sftpSession, error) {
	sshCmd := SSHSubsystemCommand(loc, explicitKeyPath, "sftp")
	sshCmd.Stderr = os.Stderr

	sshStdin, err := sshCmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("SFTP stdin pipe failed: %w", err)
	}
	sshStdout, err := sshCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("SFTP stdout pipe failed: %w", err)
	}
	if err := sshCmd.Start(); err != nil {
		return nil, fmt.Errorf("SFTP ssh command failed: %w", err)
	}

	sftpClient, err := sftp.NewClientPipe(sshStdout, sshStdin)
	if err != nil {
		_ = sshCmd.Process.Kill()
		_ = sshCmd.Wait()
		return nil, fmt.Errorf("SFTP connection to %s failed: %w", loc.SSHSpec(), err)
	}
	return &sftpSession{SFTPFS: rsfs.NewSFTPFS(sftpClient), cmd: sshCmd, stdin: sshStdin}, nil
}

// newS3Client builds an S3 client from configuration, falling back to the
// default AWS credential chain when no static keys are configured
func newS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	configOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}
	maxRetries := cfg.MaxRetries
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries + 1
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO, Localstack etc. need path-style addressing
			o.UsePathStyle = true
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	}), nil
}
