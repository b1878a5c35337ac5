package imaging

import (
	"regexp"
	"strings"
)

// Google Drive share links come in several shapes; all of them expose the
// file ID, which is what the direct-view URL needs.
var driveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

// NormalizeDriveURL rewrites a Google Drive share URL into the direct-view
// form that renders in an <img> tag. URLs already in direct-view form and
// URLs where no file ID can be found are returned unchanged, so arbitrary
// image URLs pass through safely.
func NormalizeDriveURL(url string) string {
	if url == "" {
		return url
	}
	if strings.Contains(url, "drive.google.com/uc?") {
		return url
	}
	for _, pat := range driveIDPatterns {
		if m := pat.FindStringSubmatch(url); m != nil {
			return "https://drive.google.com/uc?export=view&id=" + m[1]
		}
	}
	return url
}
