package provision

import (
	"testing"

	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/stretchr/testify/assert"
)

func TestNextIndex(t *testing.T) {
	t.Parallel()

	channels := []discord.Channel{
		{ID: "1", Name: "3-boardgame", ParentID: "active"},
		{ID: "2", Name: "7-karaoke", ParentID: "archive"},
		{ID: "3", Name: "general", ParentID: "active"},
		{ID: "4", Name: "12-other", ParentID: "elsewhere"},
		{ID: "5", Name: "x9-weird", ParentID: "active"},
	}

	cases := map[string]struct {
		categories []string
		want       int
	}{
		"empty": {
			categories: nil,
			want:       1,
		},
		"active only": {
			categories: []string{"active"},
			want:       4,
		},
		"active and archive": {
			categories: []string{"active", "archive"},
			want:       8,
		},
		"blank category ignored": {
			categories: []string{"active", ""},
			want:       4,
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, NextIndex(channels, testCase.categories...))
		})
	}
}

func TestChannelIndex(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input     string
		want      int
		wantFound bool
	}{
		"indexed": {
			input:     "42-hackathon",
			want:      42,
			wantFound: true,
		},
		"no index": {
			input: "general",
		},
		"index not leading": {
			input: "a1-foo",
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			index, found := ChannelIndex(testCase.input)
			assert.Equal(t, testCase.wantFound, found)
			assert.Equal(t, testCase.want, index)
		})
	}
}
