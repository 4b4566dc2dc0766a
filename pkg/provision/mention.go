package provision

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	memberMention = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMention   = regexp.MustCompile(`^<@&(\d+)>$`)
)

// ParseMemberMentions extracts user IDs from a whitespace-separated list of
// member mentions, e.g. `<@123> <@456>`. Duplicates are dropped.
func ParseMemberMentions(value string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	for _, token := range strings.Fields(value) {
		matches := memberMention.FindStringSubmatch(token)
		if matches == nil {
			return nil, fmt.Errorf("%w: `%s` is not a member mention, use the `@user` form", ErrInvalidMention, token)
		}

		if seen[matches[1]] {
			continue
		}

		seen[matches[1]] = true
		ids = append(ids, matches[1])
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no member mention found", ErrInvalidMention)
	}

	return ids, nil
}

// ParseRoleMention extracts the role ID from a `<@&id>` mention
func ParseRoleMention(value string) (string, error) {
	matches := roleMention.FindStringSubmatch(strings.TrimSpace(value))
	if matches == nil {
		return "", fmt.Errorf("%w: `%s` is not a role mention, use the `@role` form", ErrInvalidMention, value)
	}

	return matches[1], nil
}
