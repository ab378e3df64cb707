//go:build windows

package inspect

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

var chromeKeys = []registry.Key{registry.CURRENT_USER, registry.LOCAL_MACHINE}

const blBeacon = `Software\Google\Chrome\BLBeacon`

func chromeRegistryVersion() (string, error) {
	for _, root := range chromeKeys {
		k, err := registry.OpenKey(root, blBeacon, registry.QUERY_VALUE)
		if errors.Is(err, registry.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		v, _, err := k.GetStringValue("version")
		k.Close()
		if errors.Is(err, registry.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return v, nil
	}
	return "", nil
}
