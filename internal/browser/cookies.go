package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrCookiesNotFound = errors.New("cookies not found")

// Cookie mirrors one entry of a captured <platform>_cookies.json file.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httpOnly"`
	Expiry   float64 `json:"expiry,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

func CookieFile(dir, platform string) string {
	return filepath.Join(dir, platform+"_cookies.json")
}

// LoadCookies reads the session cookies captured for platform.
func LoadCookies(dir, platform string) ([]Cookie, error) {
	data, err := os.ReadFile(CookieFile(dir, platform))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCookiesNotFound
		}
		return nil, fmt.Errorf("error reading %s cookies: %w", platform, err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("error parsing %s cookies: %w", platform, err)
	}
	if len(cookies) == 0 {
		return nil, ErrCookiesNotFound
	}
	return cookies, nil
}
