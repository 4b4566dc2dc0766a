package majordome

import (
	"context"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/ViBiOh/majordome/pkg/approval"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/provision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApprovalAPI struct{}

func (fakeApprovalAPI) GuildRoles(context.Context, string) ([]discord.Role, error) {
	return []discord.Role{{ID: "r-admin", Name: "Administrator"}}, nil
}

func (fakeApprovalAPI) CreateMessage(_ context.Context, channelID string, _ discord.InteractionDataResponse) (discord.Message, error) {
	return discord.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (fakeApprovalAPI) EditMessage(_ context.Context, channelID, messageID string, _ discord.InteractionDataResponse) (discord.Message, error) {
	return discord.Message{ID: messageID, ChannelID: channelID}, nil
}

func (fakeApprovalAPI) StartThread(context.Context, string, string, string, int) (discord.Channel, error) {
	return discord.Channel{ID: "thread-1"}, nil
}

type emptyStore struct{}

func (emptyStore) Save(_ context.Context, action, _ string, _ time.Duration) (string, error) {
	return "cid-" + action, nil
}

func (emptyStore) Restore(_ context.Context, customID string) (string, string, error) {
	return "", "", fmt.Errorf("unknown custom id `%s`", customID)
}

func newTestProvision(t *testing.T) provision.Service {
	t.Helper()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config := provision.Flags(fs, "")

	require.NoError(t, fs.Parse([]string{
		"-eventCategory", "Events",
		"-eventArchiveCategory", "Events Archive",
		"-eventRequestChannel", "event-requests",
		"-projectCategory", "Projects",
		"-projectArchiveCategory", "Projects Archive",
		"-projectRequestChannel", "project-requests",
		"-clubCategory", "Clubs",
		"-clubRequestChannel", "club-requests",
	}))

	service, err := provision.New(config, nil)
	require.NoError(t, err)

	return service
}

func newTestApproval(t *testing.T) *approval.Service {
	t.Helper()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config := approval.Flags(fs, "")

	require.NoError(t, fs.Parse(nil))

	service, err := approval.New(config, fakeApprovalAPI{}, emptyStore{})
	require.NoError(t, err)

	return service
}

func newTestService(t *testing.T) Service {
	t.Helper()

	return New(newTestProvision(t), newTestApproval(t))
}

func commandWebhook(name string, options map[string]string) discord.InteractionRequest {
	webhook := discord.InteractionRequest{
		GuildID: "guild",
		Member:  discord.Member{User: discord.User{ID: "1", Username: "alice"}},
		Type:    discord.ApplicationCommandInteraction,
	}
	webhook.Data.Name = name

	for key, value := range options {
		webhook.Data.Options = append(webhook.Data.Options, discord.CommandOption{Name: key, Value: value})
	}

	return webhook
}

func TestHandleInteraction(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(helpCommand, nil))
		assert.Nil(t, async)
		require.Len(t, response.Data.Embeds, 1)
		assert.Equal(t, discord.EphemeralMessage, response.Data.Flags)
	})

	t.Run("docs known command", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(docsCommand, map[string]string{"command": createCommand}))
		assert.Nil(t, async)
		require.Len(t, response.Data.Embeds, 1)
		assert.Contains(t, response.Data.Embeds[0].Title, createCommand)
	})

	t.Run("docs unknown command lists available", func(t *testing.T) {
		t.Parallel()

		response, _ := service.HandleInteraction(context.Background(), commandWebhook(docsCommand, map[string]string{"command": "nope"}))
		require.Len(t, response.Data.Embeds, 1)
		assert.Contains(t, response.Data.Embeds[0].Title, "Unknown")
	})

	t.Run("guild only", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(createCommand, nil)
		webhook.GuildID = ""

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "server")
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()

		response, _ := service.HandleInteraction(context.Background(), commandWebhook("nope", nil))
		assert.Contains(t, response.Data.Content, "Unknown command")
	})

	t.Run("component routed to approval", func(t *testing.T) {
		t.Parallel()

		webhook := discord.InteractionRequest{
			GuildID: "guild",
			Member:  discord.Member{User: discord.User{ID: "1"}, Roles: []string{"r-admin"}},
			Type:    discord.MessageComponentInteraction,
		}
		webhook.Data.CustomID = "cid-unknown"

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "expired")
	})
}

func TestHandleCreate(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	t.Run("restricted to request channel", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(createCommand, map[string]string{"category": "event", "name": "oden"})
		webhook.Channel = discord.Channel{Name: "general"}

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "event-requests")
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(createCommand, map[string]string{"category": "event"})
		webhook.Channel = discord.Channel{Name: "event-requests"}

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "name")
	})

	t.Run("malformed members", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(createCommand, map[string]string{"category": "event", "name": "oden", "members": "alice"})
		webhook.Channel = discord.Channel{Name: "event-requests"}

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "mention")
	})

	t.Run("valid request defers", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(createCommand, map[string]string{"category": "event", "name": "oden", "members": "<@123>"})
		webhook.Channel = discord.Channel{Name: "event-requests"}

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.NotNil(t, async)
		assert.Equal(t, discord.DeferredChannelMessageWithSource, response.Type)
	})
}

func TestHandleMove(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	t.Run("club refused", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(archiveCommand, map[string]string{"category": "club"}))
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "club")
	})

	t.Run("defaulted event archive refused in request channel", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(archiveCommand, map[string]string{"category": "event"})
		webhook.Channel = discord.Channel{Name: "event-requests"}

		response, async := service.HandleInteraction(context.Background(), webhook)
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "event-requests")
	})

	t.Run("named channel defers", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(archiveCommand, map[string]string{"category": "event", "channel": "2-boardgame"})
		webhook.Channel = discord.Channel{Name: "event-requests"}

		_, async := service.HandleInteraction(context.Background(), webhook)
		assert.NotNil(t, async)
	})

	t.Run("restore accepts plural category", func(t *testing.T) {
		t.Parallel()

		webhook := commandWebhook(restoreCommand, map[string]string{"category": "events", "channel": "2-boardgame"})

		_, async := service.HandleInteraction(context.Background(), webhook)
		assert.NotNil(t, async)
	})
}

func TestHandleShowMembers(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	t.Run("missing role", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(showMembersCommand, nil))
		assert.Nil(t, async)
		assert.Contains(t, response.Data.Content, "role")
	})

	t.Run("private by default", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(showMembersCommand, map[string]string{"role": "<@&1>"}))
		assert.NotNil(t, async)
		assert.Equal(t, discord.EphemeralMessage, response.Data.Flags)
	})

	t.Run("public on demand", func(t *testing.T) {
		t.Parallel()

		response, async := service.HandleInteraction(context.Background(), commandWebhook(showMembersCommand, map[string]string{"role": "<@&1>", "visibility": "public"}))
		assert.NotNil(t, async)
		assert.Zero(t, response.Data.Flags)
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input   string
		want    provision.Kind
		wantErr error
	}{
		"club":           {input: "club", want: provision.KindClub},
		"event":          {input: "event", want: provision.KindEvent},
		"events plural":  {input: "events", want: provision.KindEvent},
		"project":        {input: "project", want: provision.KindProject},
		"project plural": {input: "projects", want: provision.KindProject},
		"unknown":        {input: "nope", wantErr: provision.ErrUnknownKind},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			got, err := parseKind(testCase.input)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	commands := Commands([]string{"guild-1"})

	assert.Len(t, commands, 7)

	for name, command := range commands {
		assert.Equal(t, name, command.Name)
		assert.Equal(t, []string{"guild-1"}, command.Guilds)
	}

	create, ok := commands[createCommand]
	require.True(t, ok)
	require.Len(t, create.Options, 3)
	assert.True(t, create.Options[0].Required)
	assert.Len(t, create.Options[0].Choices, 3)
}
