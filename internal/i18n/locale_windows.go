//go:build windows

package i18n

import "golang.org/x/sys/windows"

// getPlatformLocales returns the user's UI languages in preference order,
// falling back to the default locale name
func getPlatformLocales() []string {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err == nil {
		out := langs[:0]
		for _, l := range langs {
			if l != "" {
				out = append(out, l)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if name, err := windows.GetUserDefaultLocaleName(); err == nil && name != "" {
		return []string{name}
	}
	return nil
}
