package approval

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/google/uuid"
)

const (
	actionApprove = "approve"
	actionReject  = "reject"
)

// Execute runs the approved command and returns the embed to post in the
// request's thread.
type Execute func(ctx context.Context) discord.Embed

// API is the Discord surface needed to run the approval workflow
type API interface {
	GuildRoles(ctx context.Context, guildID string) ([]discord.Role, error)
	CreateMessage(ctx context.Context, channelID string, data discord.InteractionDataResponse) (discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, data discord.InteractionDataResponse) (discord.Message, error)
	StartThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int) (discord.Channel, error)
}

// Store persists the mapping between component custom IDs and pending
// requests, so button payloads stay under Discord's length limit.
type Store interface {
	Save(ctx context.Context, action, id string, ttl time.Duration) (string, error)
	Restore(ctx context.Context, customID string) (action, id string, err error)
}

// Submission describes a command awaiting approval
type Submission struct {
	Command     string
	Description string
	Requester   discord.Member
	Arguments   []discord.Field
}

type request struct {
	execute   Execute
	timer     *time.Timer
	expiresAt time.Time
	channelID string
	messageID string
	threadID  string
	requester discord.Member
	command   string
}

type Service struct {
	api     API
	store   Store
	pending map[string]*request

	approverRole string
	timeout      time.Duration

	mutex sync.Mutex
}

type Config struct {
	approverRole *string
	timeout      *string
}

// Flags adds flags for configuring package
func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		approverRole: flags.String(fs, prefix, "approval", "ApproverRole", "", "Name of the role allowed to approve requests", "", "Administrator", overrides),
		timeout:      flags.String(fs, prefix, "approval", "Timeout", "", "Duration before a pending request expires", "", "24h", overrides),
	}
}

// New creates new Service from Config
func New(config Config, api API, store Store) (*Service, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(*config.timeout))
	if err != nil {
		return nil, fmt.Errorf("parse timeout: %w", err)
	}

	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	return &Service{
		api:          api,
		store:        store,
		pending:      make(map[string]*request),
		approverRole: strings.TrimSpace(*config.approverRole),
		timeout:      timeout,
	}, nil
}

// ApproverRole returns the name of the role allowed to decide requests
func (s *Service) ApproverRole() string {
	return s.approverRole
}

// IsApprover tells whether the member holds the approver role
func (s *Service) IsApprover(ctx context.Context, guildID string, member discord.Member) (bool, error) {
	roles, err := s.api.GuildRoles(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("list roles: %w", err)
	}

	for _, role := range roles {
		if role.Name != s.approverRole {
			continue
		}

		return slices.Contains(member.Roles, role.ID), nil
	}

	return false, nil
}

// Submit posts an approval request message with decision buttons in the given
// channel, opens a thread carrying the request details and arms the
// expiration timer. The execute callback runs at most once, on approval.
func (s *Service) Submit(ctx context.Context, guildID, channelID string, submission Submission, execute Execute) error {
	id := uuid.NewString()

	approveID, err := s.store.Save(ctx, actionApprove, id, s.timeout)
	if err != nil {
		return fmt.Errorf("save approve id: %w", err)
	}

	rejectID, err := s.store.Save(ctx, actionReject, id, s.timeout)
	if err != nil {
		return fmt.Errorf("save reject id: %w", err)
	}

	expiresAt := time.Now().Add(s.timeout)

	content := fmt.Sprintf("%s requested `/%s`", submission.Requester.User.Mention(), submission.Command)
	if mention, ok := s.approverMention(ctx, guildID); ok {
		content = fmt.Sprintf("%s, %s", mention, content)
	}

	data := discord.NewDataResponse(content).
		AllowMentions("roles").
		AddEmbed(requestEmbed(submission, expiresAt)).
		AddComponent(discord.NewActionRow(
			discord.NewButton(discord.PrimaryButton, "Approve", approveID),
			discord.NewButton(discord.DangerButton, "Reject", rejectID),
		))

	message, err := s.api.CreateMessage(ctx, channelID, data)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	pending := &request{
		execute:   execute,
		expiresAt: expiresAt,
		channelID: channelID,
		messageID: message.ID,
		requester: submission.Requester,
		command:   submission.Command,
	}

	thread, err := s.api.StartThread(ctx, channelID, message.ID, fmt.Sprintf("/%s by %s", submission.Command, submission.Requester.User.Username), autoArchiveMinutes(s.timeout))
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "unable to start request thread", slog.String("command", submission.Command), slog.Any("error", err))
	} else {
		pending.threadID = thread.ID

		if _, err := s.api.CreateMessage(ctx, thread.ID, discord.NewDataResponse("").AddEmbed(detailsEmbed(submission))); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "unable to post request details", slog.String("command", submission.Command), slog.Any("error", err))
		}
	}

	s.mutex.Lock()
	s.pending[id] = pending
	pending.timer = time.AfterFunc(s.timeout, func() {
		s.expire(id)
	})
	s.mutex.Unlock()

	slog.LogAttrs(ctx, slog.LevelInfo, "approval requested",
		slog.String("command", submission.Command),
		slog.String("requester", submission.Requester.User.Username),
		slog.Time("expires", expiresAt))

	return nil
}

func (s *Service) approverMention(ctx context.Context, guildID string) (string, bool) {
	roles, err := s.api.GuildRoles(ctx, guildID)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "unable to resolve approver role", slog.Any("error", err))
		return "", false
	}

	for _, role := range roles {
		if role.Name == s.approverRole {
			return role.Mention(), true
		}
	}

	return "", false
}

// take removes and returns the pending request, stopping its timer. It is the
// only transition out of the pending state, so a request is decided at most
// once however many clicks race.
func (s *Service) take(id string) (*request, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pending, ok := s.pending[id]
	if !ok {
		return nil, false
	}

	delete(s.pending, id)

	if pending.timer != nil {
		pending.timer.Stop()
	}

	return pending, true
}

// HandleComponent decides a pending request from a button click. The reply
// edits the request message in place. On approval, the command runs in the
// background and its outcome lands in the request's thread.
func (s *Service) HandleComponent(ctx context.Context, webhook discord.InteractionRequest) discord.InteractionResponse {
	action, id, err := s.store.Restore(ctx, webhook.Data.CustomID)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "unable to restore custom id", slog.Any("error", err))
		return discord.NewEphemeral(false, "This approval request has expired.")
	}

	approver, err := s.IsApprover(ctx, webhook.GuildID, webhook.Member)
	if err != nil {
		return discord.NewError(false, err)
	}

	if !approver {
		return discord.NewEphemeral(false, fmt.Sprintf("Only members of the `%s` role can decide this request.", s.approverRole))
	}

	pending, ok := s.take(id)
	if !ok {
		return discord.NewEphemeral(false, "This approval request has expired.")
	}

	switch action {
	case actionApprove:
		return s.approve(ctx, webhook, pending)
	case actionReject:
		return s.reject(ctx, webhook, pending)
	default:
		return discord.NewEphemeral(false, fmt.Sprintf("Unknown action `%s`.", action))
	}
}

func (s *Service) approve(ctx context.Context, webhook discord.InteractionRequest, pending *request) discord.InteractionResponse {
	slog.LogAttrs(ctx, slog.LevelInfo, "request approved",
		slog.String("command", pending.command),
		slog.String("approver", webhook.Member.User.Username))

	execute := pending.execute

	go func(ctx context.Context) {
		target := pending.threadID
		if len(target) == 0 {
			target = pending.channelID
		}

		if len(pending.threadID) != 0 {
			notice := discord.NewDataResponse("").AddEmbed(decidedEmbed(pending, "Approved", fmt.Sprintf("Approved by %s, running `/%s`.", webhook.Member.User.Mention(), pending.command), colorGreen))
			if _, err := s.api.CreateMessage(ctx, pending.threadID, notice); err != nil {
				slog.LogAttrs(ctx, slog.LevelWarn, "unable to post approval notification", slog.String("command", pending.command), slog.Any("error", err))
			}
		}

		output := execute(ctx)

		if _, err := s.api.CreateMessage(ctx, target, discord.NewDataResponse("").AddEmbed(output)); err != nil {
			slog.LogAttrs(ctx, slog.LevelError, "unable to post command output", slog.String("command", pending.command), slog.Any("error", err))
		}
	}(context.WithoutCancel(ctx))

	response := discord.NewResponse(discord.UpdateMessageCallback, "").
		AddEmbed(decidedEmbed(pending, "Approved", fmt.Sprintf("Approved by %s, running `/%s`.", webhook.Member.User.Mention(), pending.command), colorGreen))
	response.Data.Components = []discord.Component{}

	return response
}

func (s *Service) reject(ctx context.Context, webhook discord.InteractionRequest, pending *request) discord.InteractionResponse {
	slog.LogAttrs(ctx, slog.LevelInfo, "request rejected",
		slog.String("command", pending.command),
		slog.String("approver", webhook.Member.User.Username))

	if len(pending.threadID) != 0 {
		notice := discord.NewDataResponse(fmt.Sprintf("%s your `/%s` request was rejected by %s.", pending.requester.User.Mention(), pending.command, webhook.Member.User.Mention())).
			AllowMentions("users").
			AddEmbed(decidedEmbed(pending, "Rejected", fmt.Sprintf("Rejected by %s.", webhook.Member.User.Mention()), colorRed))
		if _, err := s.api.CreateMessage(ctx, pending.threadID, notice); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "unable to notify requester", slog.Any("error", err))
		}
	}

	response := discord.NewResponse(discord.UpdateMessageCallback, "").
		AddEmbed(decidedEmbed(pending, "Rejected", fmt.Sprintf("Rejected by %s.", webhook.Member.User.Mention()), colorRed))
	response.Data.Components = []discord.Component{}

	return response
}

func (s *Service) expire(id string) {
	pending, ok := s.take(id)
	if !ok {
		return
	}

	ctx := context.Background()

	slog.LogAttrs(ctx, slog.LevelInfo, "request expired", slog.String("command", pending.command))

	expired := decidedEmbed(pending, "Expired", fmt.Sprintf("No decision within %s, the request is cancelled.", s.timeout), colorOrange)

	data := discord.NewDataResponse("").AddEmbed(expired)
	data.Components = []discord.Component{}

	if _, err := s.api.EditMessage(ctx, pending.channelID, pending.messageID, data); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "unable to edit expired request", slog.String("command", pending.command), slog.Any("error", err))
	}

	if len(pending.threadID) != 0 {
		notice := discord.NewDataResponse(fmt.Sprintf("%s your `/%s` request expired without a decision.", pending.requester.User.Mention(), pending.command)).
			AllowMentions("users").
			AddEmbed(expired)
		if _, err := s.api.CreateMessage(ctx, pending.threadID, notice); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "unable to notify requester", slog.Any("error", err))
		}
	}
}

// autoArchiveMinutes picks the smallest Discord thread auto-archive duration
// covering the approval timeout. Valid values are 60, 1440, 4320 and 10080.
func autoArchiveMinutes(timeout time.Duration) int {
	switch {
	case timeout <= time.Hour:
		return 60
	case timeout <= 24*time.Hour:
		return 1440
	case timeout <= 72*time.Hour:
		return 4320
	default:
		return 10080
	}
}
