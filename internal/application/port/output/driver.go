package output

import (
	"context"

	"browser-harness/internal/domain/entity"
)

// VersionService is the network side of driver resolution and download.
type VersionService interface {
	ProbeExists(ctx context.Context, url string) (bool, error)
	FetchBody(ctx context.Context, url string) (string, error)
	FinalRedirectURL(ctx context.Context, url string) (string, error)
	Download(ctx context.Context, url, dest string) error
}

// VersionInspector reads the installed browser version. An empty string means
// the version could not be determined locally.
type VersionInspector interface {
	BrowserVersion(ctx context.Context, browser entity.BrowserType) (string, error)
}

type FileService interface {
	CreateDirectory(path string) error
	FileExists(path string) bool
	ExtractArchive(archive, dest string) error
	MakeExecutable(path string, platform entity.Platform) error
}

type DriverResolver interface {
	Browser() entity.BrowserType
	Version(ctx context.Context) (string, error)
	DownloadURL(ctx context.Context) (string, error)
	ArchiveName(version string) string
	BinaryName() string
}
