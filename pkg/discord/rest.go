package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/request"
)

type channelType uint

const (
	GuildTextChannel     channelType = 0
	GuildCategoryChannel channelType = 4
	GuildPublicThread    channelType = 11
)

type Channel struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	ParentID             string      `json:"parent_id,omitempty"`
	PermissionOverwrites []Overwrite `json:"permission_overwrites,omitempty"`
	Type                 channelType `json:"type"`
}

func (c Channel) Mention() string {
	return fmt.Sprintf("<#%s>", c.ID)
}

type Overwrite struct {
	ID    string `json:"id"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
	Type  uint   `json:"type"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	Managed     bool   `json:"managed"`
	Mentionable bool   `json:"mentionable"`
}

func (r Role) Mention() string {
	return fmt.Sprintf("<@&%s>", r.ID)
}

type GuildMember struct {
	User  User     `json:"user"`
	Nick  string   `json:"nick,omitempty"`
	Roles []string `json:"roles"`
}

type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Timestamp time.Time `json:"timestamp"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Embeds    []Embed   `json:"embeds"`
}

// IsRetryable sleeps out the rate-limit window when the response is a 429.
// Pattern borrowed from the command registration flow, for the few bursty
// operations of this bot a single retry is enough.
func IsRetryable(ctx context.Context, resp *http.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return false
	}

	retryIn := time.Second * 5
	if seconds, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil {
		retryIn = time.Duration(seconds * float64(time.Second))
	}

	slog.LogAttrs(ctx, slog.LevelWarn, "rate-limited by discord, waiting before retrying", slog.Duration("delay", retryIn))

	select {
	case <-ctx.Done():
		return false
	case <-time.After(retryIn):
		return true
	}
}

func (s Service) GuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
retry:
	resp, err := s.rest.Path("/guilds/%s/channels", guildID).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return nil, fmt.Errorf("list channels: %w", err)
	}

	var output []Channel
	return output, httpjson.Read(resp, &output)
}

func (s Service) Channel(ctx context.Context, channelID string) (Channel, error) {
	resp, err := s.rest.Path("/channels/%s", channelID).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		return Channel{}, fmt.Errorf("get channel: %w", err)
	}

	var output Channel
	return output, httpjson.Read(resp, &output)
}

func (s Service) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
retry:
	resp, err := s.rest.Path("/guilds/%s/roles", guildID).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return nil, fmt.Errorf("list roles: %w", err)
	}

	var output []Role
	return output, httpjson.Read(resp, &output)
}

func (s Service) Member(ctx context.Context, guildID, userID string) (GuildMember, error) {
	resp, err := s.rest.Path("/guilds/%s/members/%s", guildID, userID).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		return GuildMember{}, fmt.Errorf("get member: %w", err)
	}

	var output GuildMember
	return output, httpjson.Read(resp, &output)
}

// GuildMembers lists every member of the guild, walking the paginated endpoint.
func (s Service) GuildMembers(ctx context.Context, guildID string) ([]GuildMember, error) {
	var members []GuildMember

	after := "0"

	for {
	retry:
		resp, err := s.rest.Path("/guilds/%s/members?limit=1000&after=%s", guildID, after).Method(http.MethodGet).Send(ctx, nil)
		if err != nil {
			if IsRetryable(ctx, resp) {
				goto retry
			}

			return nil, fmt.Errorf("list members: %w", err)
		}

		var page []GuildMember
		err = httpjson.Read(resp, &page)
		if err != nil {
			return nil, fmt.Errorf("read members: %w", err)
		}

		members = append(members, page...)

		if len(page) < 1000 {
			return members, nil
		}

		after = page[len(page)-1].User.ID
	}
}

func (s Service) CreateChannel(ctx context.Context, guildID, name, parentID string) (Channel, error) {
	payload := Channel{
		Name:     name,
		Type:     GuildTextChannel,
		ParentID: parentID,
	}

retry:
	resp, err := s.rest.Method(http.MethodPost).Path("/guilds/%s/channels", guildID).StreamJSON(ctx, payload)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Channel{}, fmt.Errorf("create channel: %w", err)
	}

	var output Channel
	return output, httpjson.Read(resp, &output)
}

// MoveChannel reparents a channel under the given category. When
// syncPermissions is set, the category's permission overwrites are copied
// onto the channel, like the desktop client's "sync now" does.
func (s Service) MoveChannel(ctx context.Context, channelID, parentID string, syncPermissions bool) (Channel, error) {
	payload := map[string]any{
		"parent_id": parentID,
	}

	if syncPermissions {
		category, err := s.Channel(ctx, parentID)
		if err != nil {
			return Channel{}, fmt.Errorf("get category: %w", err)
		}

		overwrites := category.PermissionOverwrites
		if overwrites == nil {
			overwrites = []Overwrite{}
		}

		payload["permission_overwrites"] = overwrites
	}

retry:
	resp, err := s.rest.Method(http.MethodPatch).Path("/channels/%s", channelID).StreamJSON(ctx, payload)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Channel{}, fmt.Errorf("move channel: %w", err)
	}

	var output Channel
	return output, httpjson.Read(resp, &output)
}

func (s Service) CreateRole(ctx context.Context, guildID, name string, mentionable bool) (Role, error) {
	payload := map[string]any{
		"name":        name,
		"mentionable": mentionable,
	}

retry:
	resp, err := s.rest.Method(http.MethodPost).Path("/guilds/%s/roles", guildID).StreamJSON(ctx, payload)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Role{}, fmt.Errorf("create role: %w", err)
	}

	var output Role
	return output, httpjson.Read(resp, &output)
}

func (s Service) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
retry:
	resp, err := s.rest.Method(http.MethodPut).Path("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID).Send(ctx, nil)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return fmt.Errorf("add member role: %w", err)
	}

	if err := request.DiscardBody(resp.Body); err != nil {
		return fmt.Errorf("discard: %w", err)
	}

	return nil
}

func (s Service) CreateMessage(ctx context.Context, channelID string, data InteractionDataResponse) (Message, error) {
retry:
	resp, err := s.rest.Method(http.MethodPost).Path("/channels/%s/messages", channelID).StreamJSON(ctx, data)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Message{}, fmt.Errorf("create message: %w", err)
	}

	var output Message
	return output, httpjson.Read(resp, &output)
}

func (s Service) EditMessage(ctx context.Context, channelID, messageID string, data InteractionDataResponse) (Message, error) {
retry:
	resp, err := s.rest.Method(http.MethodPatch).Path("/channels/%s/messages/%s", channelID, messageID).StreamJSON(ctx, data)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Message{}, fmt.Errorf("edit message: %w", err)
	}

	var output Message
	return output, httpjson.Read(resp, &output)
}

// StartThread starts a public thread from the given message.
func (s Service) StartThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int) (Channel, error) {
	payload := map[string]any{
		"name":                  name,
		"auto_archive_duration": autoArchiveMinutes,
	}

retry:
	resp, err := s.rest.Method(http.MethodPost).Path("/channels/%s/messages/%s/threads", channelID, messageID).StreamJSON(ctx, payload)
	if err != nil {
		if IsRetryable(ctx, resp) {
			goto retry
		}

		return Channel{}, fmt.Errorf("start thread: %w", err)
	}

	var output Channel
	return output, httpjson.Read(resp, &output)
}
