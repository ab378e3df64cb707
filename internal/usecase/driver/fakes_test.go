package driver

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"browser-harness/internal/domain/entity"
)

type fakeRemote struct {
	mu        sync.Mutex
	probes    map[string]bool
	bodies    map[string]string
	redirects map[string]string
	calls     []string
	downloads []string
	failWith  error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		probes:    map[string]bool{},
		bodies:    map[string]string{},
		redirects: map[string]string{},
	}
}

func (f *fakeRemote) record(kind, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind+" "+url)
}

func (f *fakeRemote) ProbeExists(_ context.Context, url string) (bool, error) {
	f.record("probe", url)
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.probes[url], nil
}

func (f *fakeRemote) FetchBody(_ context.Context, url string) (string, error) {
	f.record("get", url)
	if f.failWith != nil {
		return "", f.failWith
	}
	body, ok := f.bodies[url]
	if !ok {
		return "", errors.New("unexpected fetch " + url)
	}
	return body, nil
}

func (f *fakeRemote) FinalRedirectURL(_ context.Context, url string) (string, error) {
	f.record("redirect", url)
	if f.failWith != nil {
		return "", f.failWith
	}
	if final, ok := f.redirects[url]; ok {
		return final, nil
	}
	return url, nil
}

func (f *fakeRemote) Download(_ context.Context, url, dest string) error {
	f.record("download", url)
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	f.downloads = append(f.downloads, dest)
	f.mu.Unlock()
	return nil
}

type fakeInspector struct {
	version string
	err     error
	calls   int
}

func (f *fakeInspector) BrowserVersion(context.Context, entity.BrowserType) (string, error) {
	f.calls++
	return f.version, f.err
}

// fakeFiles pretends every extracted archive contains binary.
type fakeFiles struct {
	existing   map[string]bool
	dirs       []string
	extracted  []string
	executable []string
	binary     string
	extractErr error
}

func newFakeFiles(binary string) *fakeFiles {
	return &fakeFiles{existing: map[string]bool{}, binary: binary}
}

func (f *fakeFiles) CreateDirectory(path string) error {
	f.dirs = append(f.dirs, path)
	return nil
}

func (f *fakeFiles) FileExists(path string) bool { return f.existing[path] }

func (f *fakeFiles) ExtractArchive(archive, dest string) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	f.extracted = append(f.extracted, archive)
	if f.binary != "" {
		f.existing[filepath.Join(dest, f.binary)] = true
	}
	return nil
}

func (f *fakeFiles) MakeExecutable(path string, _ entity.Platform) error {
	f.executable = append(f.executable, path)
	return nil
}
