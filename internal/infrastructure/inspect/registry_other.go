//go:build !windows

package inspect

func chromeRegistryVersion() (string, error) {
	return "", nil
}
