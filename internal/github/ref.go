package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prURLRegex   = regexp.MustCompile(`^(?:https?://)?github\.com/([^/\s]+)/([^/\s]+)/pull/(\d+)$`)
	prShortRegex = regexp.MustCompile(`^([^/\s#]+)/([^/\s#]+)#(\d+)$`)
)

// PullRequestRef identifies a pull request by repository and number.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParsePullRequestRef accepts a pull request URL such as
// https://github.com/{owner}/{repo}/pull/{number} or the short form
// {owner}/{repo}#{number}.
func ParsePullRequestRef(s string) (PullRequestRef, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "/")

	matches := prURLRegex.FindStringSubmatch(s)
	if matches == nil {
		matches = prShortRegex.FindStringSubmatch(s)
	}
	if len(matches) != 4 {
		return PullRequestRef{}, fmt.Errorf("invalid pull request reference: %s", s)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return PullRequestRef{}, fmt.Errorf("invalid PR number '%s'", matches[3])
	}
	return PullRequestRef{Owner: matches[1], Repo: matches[2], Number: number}, nil
}
