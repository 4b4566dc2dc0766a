package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemberMentions(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input   string
		want    []string
		wantErr error
	}{
		"single": {
			input: "<@123>",
			want:  []string{"123"},
		},
		"nickname form": {
			input: "<@!456>",
			want:  []string{"456"},
		},
		"multiple with duplicates": {
			input: "<@123> <@456> <@123>",
			want:  []string{"123", "456"},
		},
		"empty": {
			input:   "",
			wantErr: ErrInvalidMention,
		},
		"plain text": {
			input:   "alice",
			wantErr: ErrInvalidMention,
		},
		"role mention": {
			input:   "<@&123>",
			wantErr: ErrInvalidMention,
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMemberMentions(testCase.input)

			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseRoleMention(t *testing.T) {
	t.Parallel()

	got, err := ParseRoleMention(" <@&789> ")
	require.NoError(t, err)
	assert.Equal(t, "789", got)

	_, err = ParseRoleMention("<@789>")
	assert.ErrorIs(t, err, ErrInvalidMention)
}
