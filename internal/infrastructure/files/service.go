package files

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

var _ output.FileService = (*Service)(nil)

type ShellPort interface {
	Run(ctx context.Context, command string) (string, error)
}

type Service struct {
	shell  ShellPort
	logger output.LoggerPort
}

func NewService(shell ShellPort, logger output.LoggerPort) *Service {
	return &Service{shell: shell, logger: logger}
}

func (s *Service) CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

func (s *Service) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Service) ExtractArchive(archive, dest string) error {
	lower := strings.ToLower(archive)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return s.unzip(archive, dest)
	case strings.HasSuffix(lower, ".tar.gz"):
		cmd := fmt.Sprintf("tar -C %s -xzf %s", quote(dest), quote(archive))
		s.logger.Debug("extracting tarball", "command", cmd)
		if _, err := s.shell.Run(context.Background(), cmd); err != nil {
			return failure.New(failure.KindDriver, "extract", err)
		}
		return nil
	}
	return failure.Newf(failure.KindUnsupported, "extract", "unsupported archive type: %s", filepath.Base(archive))
}

func (s *Service) MakeExecutable(path string, platform entity.Platform) error {
	if platform == entity.PlatformWindows {
		return nil
	}
	if _, err := s.shell.Run(context.Background(), "chmod 755 "+quote(path)); err != nil {
		return failure.New(failure.KindDriver, "chmod", err)
	}
	return nil
}

func (s *Service) unzip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return failure.New(failure.KindDriver, "extract", err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	for _, f := range r.File {
		if err := extractZipEntry(f, root); err != nil {
			return failure.New(failure.KindDriver, "extract", err)
		}
	}
	s.logger.Debug("zip extracted", "archive", archive, "entries", len(r.File))
	return nil
}

func extractZipEntry(f *zip.File, root string) error {
	target := filepath.Join(root, filepath.FromSlash(f.Name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return fmt.Errorf("entry %q escapes %s", f.Name, root)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
