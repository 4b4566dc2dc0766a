package provision

import (
	"regexp"
	"strconv"

	"github.com/ViBiOh/majordome/pkg/discord"
)

var indexedName = regexp.MustCompile(`^(\d+)-`)

// NextIndex returns the next free index for `{index}-{name}` channels under
// the given categories. Archived channels keep their index, so the scan
// covers both the active and the archive category to keep numbering
// monotonic. Minimum is 1.
func NextIndex(channels []discord.Channel, categoryIDs ...string) int {
	parents := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if len(id) != 0 {
			parents[id] = true
		}
	}

	maxIndex := 0

	for _, channel := range channels {
		if !parents[channel.ParentID] {
			continue
		}

		matches := indexedName.FindStringSubmatch(channel.Name)
		if matches == nil {
			continue
		}

		index, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		if index > maxIndex {
			maxIndex = index
		}
	}

	return maxIndex + 1
}

// ChannelIndex extracts the index of a `{index}-{name}` channel name
func ChannelIndex(name string) (int, bool) {
	matches := indexedName.FindStringSubmatch(name)
	if matches == nil {
		return 0, false
	}

	index, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}

	return index, true
}
