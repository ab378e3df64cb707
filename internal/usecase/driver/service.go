package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

func DefaultRoot() string {
	return filepath.Join(os.TempDir(), "browser-harness")
}

type ServiceConfig struct {
	Root     string
	Platform entity.Platform
}

// Service keeps driver binaries under <root>/<version>/<binary>. Concurrent
// acquisitions of the same version are not coordinated.
type Service struct {
	resolver output.DriverResolver
	remote   output.VersionService
	files    output.FileService
	platform entity.Platform
	root     string
	logger   output.LoggerPort
}

func NewService(cfg ServiceConfig, resolver output.DriverResolver, remote output.VersionService, files output.FileService, logger output.LoggerPort) (*Service, error) {
	switch {
	case resolver == nil:
		return nil, failure.Newf(failure.KindConfiguration, "driver service", "resolver must not be nil")
	case remote == nil:
		return nil, failure.Newf(failure.KindConfiguration, "driver service", "version service must not be nil")
	case files == nil:
		return nil, failure.Newf(failure.KindConfiguration, "driver service", "file service must not be nil")
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if !cfg.Platform.Valid() {
		return nil, failure.Newf(failure.KindUnsupported, "driver service", "unsupported operating system %q", cfg.Platform)
	}
	root := cfg.Root
	if root == "" {
		root = DefaultRoot()
	}
	if err := files.CreateDirectory(root); err != nil {
		return nil, fmt.Errorf("create download root: %w", err)
	}
	return &Service{
		resolver: resolver,
		remote:   remote,
		files:    files,
		platform: cfg.Platform,
		root:     root,
		logger:   logger.WithField("browser", string(resolver.Browser())),
	}, nil
}

func (s *Service) Root() string { return s.root }

// EnsureDriverPath returns the driver binary for the resolved version,
// downloading and unpacking it on first use.
func (s *Service) EnsureDriverPath(ctx context.Context) (string, error) {
	version, err := s.resolver.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve driver version: %w", err)
	}

	if !validVersion(version) {
		return "", failure.Newf(failure.KindDriver, "driver path", "refusing malformed driver version %q", truncate(version, 64))
	}

	dir := filepath.Join(s.root, version)
	bin := filepath.Join(dir, s.resolver.BinaryName())
	if s.files.FileExists(bin) {
		s.logger.Debug("driver cache hit", "path", bin)
		return bin, nil
	}

	if err := s.files.CreateDirectory(dir); err != nil {
		return "", fmt.Errorf("create version dir: %w", err)
	}

	url, err := s.resolver.DownloadURL(ctx)
	if err != nil {
		return "", fmt.Errorf("driver download url: %w", err)
	}
	archive := filepath.Join(dir, s.resolver.ArchiveName(version))

	s.logger.Info("downloading driver", "url", url, "archive", archive)
	if err := s.remote.Download(ctx, url, archive); err != nil {
		return "", fmt.Errorf("download driver: %w", err)
	}
	if err := s.files.ExtractArchive(archive, dir); err != nil {
		return "", fmt.Errorf("extract driver: %w", err)
	}
	if !s.files.FileExists(bin) {
		return "", failure.Newf(failure.KindDriver, "extract driver", "%s not found in %s", s.resolver.BinaryName(), archive)
	}
	if err := s.files.MakeExecutable(bin, s.platform); err != nil {
		return "", fmt.Errorf("make driver executable: %w", err)
	}

	s.logger.Info("driver ready", "path", bin, "version", version)
	return bin, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (l nopLogger) Named(string) output.LoggerPort              { return l }
func (nopLogger) Close() error                                  { return nil }
