package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
)

var (
	sshPattern      = regexp.MustCompile(`^[\w.-]+@([^:/\s]+):(.+)$`)
	schemePattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	embeddedPattern = regexp.MustCompile(`github\.com[/:]+([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)(?:[/\s,;:)!?'"<>\]]|$)`)
	barePattern     = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)/?$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

const (
	wrapperChars  = " \t\r\n\"'`<>()[]{}"
	trailingPunct = ".,;:)"
)

// * ParseRepoURL resolves free text into (owner, repo). Accepted forms include
// * https URLs, scheme-less github.com URLs, scp-style SSH, bare owner/repo and
// * a github.com URL embedded in surrounding prose.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	text := cleanRepoText(raw)

	attempts := []func(string) (string, string, bool){
		fromSSH,
		fromURL,
		fromEmbedded,
		fromBare,
	}
	for _, attempt := range attempts {
		o, r, ok := attempt(text)
		if !ok {
			continue
		}
		o = strings.TrimSpace(o)
		r = trimRepoName(r)
		if namePattern.MatchString(o) && namePattern.MatchString(r) {
			return o, r, nil
		}
	}

	return "", "", errors.New(
		errors.RefInvalidURL,
		"Invalid GitHub URL",
		fmt.Sprintf("Could not resolve owner/repo from %q", raw),
		nil,
		errors.LevelError,
	)
}

// * cleanRepoText peels wrappers, query, fragment and trailing punctuation in
// * any nesting order, e.g. `<url>.` or `(url),`
func cleanRepoText(raw string) string {
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	for {
		prev := s
		s = strings.Trim(s, wrapperChars)
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimRight(s, trailingPunct)
		if s == prev {
			return s
		}
	}
}

func fromSSH(s string) (string, string, bool) {
	m := sshPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	if !strings.Contains(strings.ToLower(m[1]), "github.com") {
		return "", "", false
	}
	return firstTwoSegments(m[2])
}

func fromURL(s string) (string, string, bool) {
	if strings.ContainsAny(s, " \t\r\n") {
		return "", "", false
	}
	if !schemePattern.MatchString(s) {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", "", false
	}
	if !strings.Contains(strings.ToLower(u.Host), "github.com") {
		return "", "", false
	}
	return firstTwoSegments(u.Path)
}

func fromEmbedded(s string) (string, string, bool) {
	m := embeddedPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func fromBare(s string) (string, string, bool) {
	if strings.ContainsAny(s, " \t\r\n") {
		return "", "", false
	}
	m := barePattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func firstTwoSegments(p string) (string, string, bool) {
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
		if len(segs) == 2 {
			return segs[0], segs[1], true
		}
	}
	return "", "", false
}

func trimRepoName(r string) string {
	r = strings.TrimRight(strings.TrimSpace(r), trailingPunct)
	r = strings.TrimSuffix(r, ".git")
	return strings.TrimRight(r, trailingPunct)
}
