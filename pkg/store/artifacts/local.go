package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localSink struct {
	dir string
}

// NewLocalSink keeps reports under dir, creating it when needed
func NewLocalSink(dir string) (Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	return &localSink{dir: abs}, nil
}

func (s *localSink) Deliver(_ context.Context, localPath, name string) (string, error) {
	dst := filepath.Join(s.dir, filepath.FromSlash(name))
	if !s.contains(dst) {
		return "", fmt.Errorf("artifact name %q escapes the output directory", name)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	defer src.Close()

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact: %w", err)
	}
	if _, err = io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to copy artifact: %w", err)
	}
	if err = out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}
	if err = os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize artifact: %w", err)
	}
	return dst, nil
}

func (s *localSink) Open(_ context.Context, location string) (io.ReadCloser, error) {
	if !s.contains(location) {
		return nil, fmt.Errorf("artifact %q is outside the output directory", location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, nil
}

func (s *localSink) contains(path string) bool {
	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
