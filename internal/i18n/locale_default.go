//go:build !windows

package i18n

// getPlatformLocales has nothing to add on Unix, where LANG and LC_* are
// already consulted
func getPlatformLocales() []string { return nil }
