package social

import (
	"net/url"
	"strings"
)

// The extractors below turn a user-supplied profile URL into the canonical
// identifier the matching vendor API expects. They are pure: no network
// access, and unparseable input yields ("", false) rather than an error.

func splitProfilePath(profileURL string, hosts ...string) ([]string, bool) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return nil, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	matched := false
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, false
	}

	var segments []string
	for _, seg := range strings.Split(u.EscapedPath(), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

// ExtractTwitterUsername parses a twitter.com or x.com profile URL.
func ExtractTwitterUsername(profileURL string) (string, bool) {
	segments, ok := splitProfilePath(profileURL, "twitter.com", "x.com")
	if !ok {
		return "", false
	}
	username := strings.TrimPrefix(segments[0], "@")
	if username == "" {
		return "", false
	}
	return username, true
}

// ExtractFacebookUsername parses a facebook.com page or profile URL.
// Supported shapes:
//
//	facebook.com/<username>
//	facebook.com/pages/<name>/<pageId>  -> pageId
//	facebook.com/profile.php?id=<id>    -> id
func ExtractFacebookUsername(profileURL string) (string, bool) {
	segments, ok := splitProfilePath(profileURL, "facebook.com", "fb.com")
	if !ok {
		return "", false
	}

	if segments[len(segments)-1] == "profile.php" {
		u, err := url.Parse(strings.TrimSpace(profileURL))
		if err != nil {
			return "", false
		}
		id := u.Query().Get("id")
		if id == "" {
			return "", false
		}
		return id, true
	}

	if segments[0] == "pages" {
		// Legacy page URLs carry the numeric page ID as the last segment.
		if len(segments) < 2 {
			return "", false
		}
		return segments[len(segments)-1], true
	}

	return segments[0], true
}

// ExtractInstagramUsername parses an instagram.com profile URL.
func ExtractInstagramUsername(profileURL string) (string, bool) {
	segments, ok := splitProfilePath(profileURL, "instagram.com")
	if !ok {
		return "", false
	}
	return segments[0], true
}

// ExtractTikTokUsername parses a tiktok.com profile URL. The first path
// segment must carry the @ prefix; anything else is not a profile URL.
func ExtractTikTokUsername(profileURL string) (string, bool) {
	segments, ok := splitProfilePath(profileURL, "tiktok.com")
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(segments[0], "@") {
		return "", false
	}
	username := strings.TrimPrefix(segments[0], "@")
	if username == "" {
		return "", false
	}
	return username, true
}

// ExtractYouTubeIdentifier parses a youtube.com channel URL. Channel IDs,
// custom URLs and legacy usernames come back bare; handles keep their
// leading @ so the API client can pick the right addressing mode.
//
//	youtube.com/channel/<id>  -> id
//	youtube.com/c/<custom>    -> custom
//	youtube.com/user/<name>   -> name
//	youtube.com/@<handle>     -> @handle
func ExtractYouTubeIdentifier(profileURL string) (string, bool) {
	segments, ok := splitProfilePath(profileURL, "youtube.com")
	if !ok {
		return "", false
	}

	switch segments[0] {
	case "channel", "c", "user":
		if len(segments) < 2 {
			return "", false
		}
		return segments[1], true
	}

	if strings.HasPrefix(segments[0], "@") && len(segments[0]) > 1 {
		return segments[0], true
	}

	return "", false
}

// ExtractTelegramUsername normalizes a t.me link or an @name form to a bare
// channel username.
func ExtractTelegramUsername(usernameOrURL string) (string, bool) {
	raw := strings.TrimSpace(usernameOrURL)
	if raw == "" {
		return "", false
	}

	if strings.Contains(raw, "t.me/") {
		segments, ok := splitProfilePath(raw, "t.me", "telegram.me")
		if !ok {
			// Bare "t.me/name" without a scheme parses as a relative path.
			idx := strings.Index(raw, "t.me/")
			name := strings.Trim(raw[idx+len("t.me/"):], "/")
			if name == "" {
				return "", false
			}
			return strings.TrimPrefix(name, "@"), true
		}
		return strings.TrimPrefix(segments[0], "@"), true
	}

	return strings.TrimPrefix(raw, "@"), true
}
