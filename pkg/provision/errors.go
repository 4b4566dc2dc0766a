package provision

import "errors"

// Usage errors carry a message meant for the invoking user, as opposed to
// Discord API failures that only deserve a generic reply.
var (
	ErrUnknownKind      = errors.New("unknown channel kind")
	ErrCategoryNotFound = errors.New("category not found")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrChannelExists    = errors.New("channel already exists")
	ErrNotInCategory    = errors.New("channel is not in the expected category")
	ErrRoleNotFound     = errors.New("role not found")
	ErrUnsafeRole       = errors.New("role cannot be managed by the bot")
	ErrNoChannelForRole = errors.New("no channel matches the role")
	ErrInvalidMention   = errors.New("invalid mention")
)

// IsUsage tells whether the error should be surfaced verbatim to the user
func IsUsage(err error) bool {
	for _, usage := range []error{
		ErrUnknownKind,
		ErrCategoryNotFound,
		ErrChannelNotFound,
		ErrChannelExists,
		ErrNotInCategory,
		ErrRoleNotFound,
		ErrUnsafeRole,
		ErrNoChannelForRole,
		ErrInvalidMention,
	} {
		if errors.Is(err, usage) {
			return true
		}
	}

	return false
}
