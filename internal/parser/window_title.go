package parser

import (
	"regexp"
	"strings"
	"sync"
)

// Browser applications whose window titles carry a usable page label.
// Matching is case-insensitive on the reported application name.
var defaultBrowsers = []string{
	"Google Chrome",
	"Chrome",
	"Chromium",
	"Mozilla Firefox",
	"Firefox",
	"Safari",
	"Microsoft Edge",
	"Edge",
	"Opera",
	"Brave",
	"Brave Browser",
	"Arc",
	"Vivaldi",
}

var (
	mu       sync.RWMutex
	browsers = browserSet(defaultBrowsers)
)

// profileSuffix matches trailing browser profile/window markers like
// " - Profile 1" or " (Incognito)".
var profileSuffix = regexp.MustCompile(`(?i)\s*[-–—]\s*Profile \d+$|\s*\((Incognito|Private Browsing|InPrivate)\)$`)

func browserSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}

// AddBrowsers registers extra application names treated as browsers,
// on top of the built-in set. Called once at startup from config.
func AddBrowsers(names []string) {
	mu.Lock()
	defer mu.Unlock()
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			browsers[name] = true
		}
	}
}

// IsBrowser reports whether the application name is a known browser.
func IsBrowser(appName string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return browsers[strings.ToLower(strings.TrimSpace(appName))]
}

// DeriveURL approximates the visited page from a browser window title by
// stripping trailing browser-chrome suffixes (the browser's own name and
// profile markers). Best-effort labelling only: if no suffix matches, the
// cleaned title is used verbatim. Non-browser applications never yield a
// URL.
func DeriveURL(appName, title string) string {
	if !IsBrowser(appName) {
		return ""
	}

	cleaned := strings.TrimSpace(title)
	cleaned = profileSuffix.ReplaceAllString(cleaned, "")

	mu.RLock()
	for name := range browsers {
		for _, sep := range []string{" - ", " – ", " — "} {
			suffix := sep + name
			if len(cleaned) > len(suffix) &&
				strings.EqualFold(cleaned[len(cleaned)-len(suffix):], suffix) {
				cleaned = cleaned[:len(cleaned)-len(suffix)]
			}
		}
	}
	mu.RUnlock()

	// A second profile marker can sit between the page label and the
	// browser name ("Page - Profile 2 - Google Chrome").
	cleaned = profileSuffix.ReplaceAllString(cleaned, "")

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return cleaned
}
