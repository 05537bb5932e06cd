package runner

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// DockerConfig holds Docker backend configuration.
type DockerConfig struct {
	MemoryMB   int64
	CPULimit   float64
	NetworkOff bool
	Timeout    time.Duration
	// Images overrides the per-language default image when set.
	Images map[Language]string
}

// DockerBackend executes code inside short-lived Docker containers with
// memory/CPU limits and the network disabled. One container per Execute
// call; the container is removed on every exit path.
type DockerBackend struct {
	client  *client.Client
	configs map[Language]LanguageConfig
	cfg     DockerConfig
}

// NewDockerBackend creates a Docker execution backend and verifies the
// daemon is reachable.
func NewDockerBackend(cfg DockerConfig) (*DockerBackend, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("docker not reachable: %w", err)
	}

	if cfg.MemoryMB <= 0 {
		cfg.MemoryMB = 256
	}
	if cfg.CPULimit <= 0 {
		cfg.CPULimit = 0.5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &DockerBackend{
		client:  cli,
		configs: DefaultLanguageConfigs(),
		cfg:     cfg,
	}, nil
}

// Execute runs one source+stdin pair inside a fresh container.
func (b *DockerBackend) Execute(ctx context.Context, req ExecRequest) (*ExecResult, error) {
	langCfg, ok := b.configs[req.Language]
	if !ok {
		return nil, fmt.Errorf("no docker config for language %s", req.Language)
	}

	img := langCfg.DockerImage
	if override, ok := b.cfg.Images[req.Language]; ok && override != "" {
		img = override
	}
	if err := b.ensureImage(ctx, img); err != nil {
		return nil, fmt.Errorf("ensure image: %w", err)
	}

	containerID, err := b.createContainer(ctx, img, req.Language)
	if err != nil {
		return nil, err
	}
	defer b.destroyContainer(containerID)

	files := map[string]string{
		langCfg.SourceFile: req.Source,
		"input.txt":        req.Stdin,
	}
	if err := b.copyFiles(ctx, containerID, files); err != nil {
		return nil, fmt.Errorf("copy files: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	start := time.Now()

	if req.Language.Compiled() {
		compileCmd := []string{"gcc", "-Wall", "-o", langCfg.BinaryFile, langCfg.SourceFile}
		res, err := b.exec(execCtx, containerID, compileCmd)
		if err != nil {
			return nil, err
		}
		if res.ExitCode != 0 {
			res.Duration = time.Since(start)
			res.CompileFailed = true
			return res, nil
		}
	}

	var runCmd []string
	switch req.Language {
	case LanguageC:
		runCmd = []string{"sh", "-c", "./" + langCfg.BinaryFile + " < input.txt"}
	default:
		runCmd = []string{"sh", "-c", "python3 " + langCfg.SourceFile + " < input.txt"}
	}

	res, err := b.exec(execCtx, containerID, runCmd)
	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return &ExecResult{
				ExitCode: -1,
				Stderr:   "execution timed out",
				Duration: time.Since(start),
				TimedOut: true,
			}, nil
		}
		return nil, err
	}
	res.Duration = time.Since(start)
	res.TimedOut = execCtx.Err() == context.DeadlineExceeded
	return res, nil
}

func (b *DockerBackend) createContainer(ctx context.Context, img string, lang Language) (string, error) {
	containerCfg := &container.Config{
		Image:           img,
		Cmd:             []string{"sh", "-c", "while true; do sleep 3600; done"},
		WorkingDir:      "/workspace",
		NetworkDisabled: b.cfg.NetworkOff,
		Tty:             false,
		Labels: map[string]string{
			"practicehub.runner": "true",
			"practicehub.lang":   lang.String(),
		},
	}

	hostCfg := &container.HostConfig{
		Resources: container.Resources{
			Memory:   b.cfg.MemoryMB * 1024 * 1024,
			NanoCPUs: int64(b.cfg.CPULimit * 1e9),
		},
	}

	resp, err := b.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}

	if err := b.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = b.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("start container: %w", err)
	}

	return resp.ID, nil
}

func (b *DockerBackend) copyFiles(ctx context.Context, containerID string, files map[string]string) error {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header: %w", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			return fmt.Errorf("write tar content: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}

	return b.client.CopyToContainer(ctx, containerID, "/workspace", &buf, container.CopyToContainerOptions{})
}

func (b *DockerBackend) exec(ctx context.Context, containerID string, cmd []string) (*ExecResult, error) {
	execCfg := container.ExecOptions{
		Cmd:          cmd,
		WorkingDir:   "/workspace",
		AttachStdout: true,
		AttachStderr: true,
	}

	execResp, err := b.client.ContainerExecCreate(ctx, containerID, execCfg)
	if err != nil {
		return nil, fmt.Errorf("create exec: %w", err)
	}

	attachResp, err := b.client.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("attach exec: %w", err)
	}
	defer attachResp.Close()

	var outBuf bytes.Buffer
	_, _ = io.Copy(&outBuf, attachResp.Reader)

	inspectResp, err := b.client.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return nil, fmt.Errorf("inspect exec: %w", err)
	}

	stdout, stderr := demuxOutput(outBuf.Bytes())

	return &ExecResult{
		ExitCode: inspectResp.ExitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// destroyContainer force-removes a container, best effort. Runs with its own
// context so cleanup still happens after the request context is cancelled.
func (b *DockerBackend) destroyContainer(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	timeout := 5
	_ = b.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout})
	_ = b.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}

// Close closes the Docker client.
func (b *DockerBackend) Close() error {
	return b.client.Close()
}

func (b *DockerBackend) ensureImage(ctx context.Context, img string) error {
	_, err := b.client.ImageInspect(ctx, img)
	if err == nil {
		return nil
	}

	reader, err := b.client.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", img, err)
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return nil
}

// demuxOutput separates Docker multiplexed stdout/stderr streams.
// Docker stream protocol uses 8-byte headers: [type][0][0][0][size1][size2][size3][size4]
// type: 1=stdout, 2=stderr
func demuxOutput(data []byte) (stdout, stderr string) {
	var outBuf, errBuf strings.Builder

	for len(data) >= 8 {
		streamType := data[0]
		size := int(data[4])<<24 | int(data[5])<<16 | int(data[6])<<8 | int(data[7])
		data = data[8:]

		if size > len(data) {
			size = len(data)
		}

		chunk := string(data[:size])
		data = data[size:]

		switch streamType {
		case 1:
			outBuf.WriteString(chunk)
		case 2:
			errBuf.WriteString(chunk)
		}
	}

	if outBuf.Len() == 0 && errBuf.Len() == 0 && len(data) > 0 {
		return string(data), ""
	}

	return outBuf.String(), errBuf.String()
}

// Ensure DockerBackend implements Backend.
var _ Backend = (*DockerBackend)(nil)
