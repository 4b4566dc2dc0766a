package majordome

import (
	"context"
	"fmt"
	"strings"

	"github.com/ViBiOh/majordome/pkg/approval"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/provision"
)

func (s Service) handleCreate(_ context.Context, webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	kind, err := parseKind(webhook.Option("category"))
	if err != nil {
		return errorResponse(err), nil
	}

	settings, _ := s.provision.Settings(kind)
	if len(settings.RequestChannel) != 0 && webhook.Channel.Name != settings.RequestChannel {
		return discord.NewEphemeral(false, fmt.Sprintf("This command can only be used in the `%s` channel.", settings.RequestChannel)), nil
	}

	name := strings.TrimSpace(webhook.Option("name"))
	if len(name) == 0 {
		return discord.NewEphemeral(false, "Give a name for the channel."), nil
	}

	var members []string
	if value := webhook.Option("members"); len(value) != 0 {
		if members, err = provision.ParseMemberMentions(value); err != nil {
			return errorResponse(err), nil
		}
	}

	return discord.AsyncResponse(false, false), func(ctx context.Context) discord.InteractionResponse {
		approver, err := s.approval.IsApprover(ctx, webhook.GuildID, webhook.Member)
		if err != nil {
			return errorResponse(err)
		}

		execute := func(ctx context.Context) discord.Embed {
			creation, err := s.provision.Create(ctx, webhook.GuildID, kind, name, members)
			if err != nil {
				return failureEmbed(createCommand, err)
			}

			return creationEmbed(kind, creation)
		}

		if approver {
			return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(execute(ctx))
		}

		submission := approval.Submission{
			Command:     fmt.Sprintf("%s (category=%s)", createCommand, kind),
			Description: fmt.Sprintf("Create a new %s channel.", kind),
			Requester:   webhook.Member,
			Arguments: []discord.Field{
				discord.NewField("category", string(kind)),
				discord.NewField("name", name),
				discord.NewField("members", mentionList(members)),
			},
		}

		if err := s.approval.Submit(ctx, webhook.GuildID, webhook.ChannelID, submission, execute); err != nil {
			return errorResponse(err)
		}

		return discord.NewResponse(discord.ChannelMessageWithSource, fmt.Sprintf("🔒 Approval request sent, members of the `%s` role have been notified.", s.approval.ApproverRole()))
	}
}

func (s Service) handleMove(webhook discord.InteractionRequest, restore bool) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	kind, err := parseKind(webhook.Option("category"))
	if err != nil {
		return errorResponse(err), nil
	}

	if kind == provision.KindClub {
		return errorResponse(fmt.Errorf("%w: club channels cannot be archived", provision.ErrUnknownKind)), nil
	}

	channelName := strings.TrimSpace(webhook.Option("channel"))

	// Archiving the invoking channel from the request channel would archive
	// the request channel itself.
	if !restore && len(channelName) == 0 && kind == provision.KindEvent {
		if settings, _ := s.provision.Settings(kind); webhook.Channel.Name == settings.RequestChannel {
			return discord.NewEphemeral(false, fmt.Sprintf("This command cannot be used in the `%s` channel without a channel name.", settings.RequestChannel)), nil
		}
	}

	return discord.AsyncResponse(false, false), func(ctx context.Context) discord.InteractionResponse {
		var (
			moved discord.Channel
			err   error
		)

		if restore {
			moved, err = s.provision.Restore(ctx, webhook.GuildID, kind, channelName, webhook.Channel)
		} else {
			moved, err = s.provision.Archive(ctx, webhook.GuildID, kind, channelName, webhook.Channel)
		}

		if err != nil {
			return errorResponse(err)
		}

		return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(moveEmbed(kind, moved, restore))
	}
}

func (s Service) handleAddMembers(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	kind, err := parseKind(webhook.Option("category"))
	if err != nil {
		return errorResponse(err), nil
	}

	members, err := provision.ParseMemberMentions(webhook.Option("members"))
	if err != nil {
		return errorResponse(err), nil
	}

	roleValue := strings.TrimSpace(webhook.Option("role"))

	return discord.AsyncResponse(false, false), func(ctx context.Context) discord.InteractionResponse {
		assignment, err := s.provision.AddRoleMembers(ctx, webhook.GuildID, kind, roleValue, webhook.Channel, members)
		if err != nil {
			return errorResponse(err)
		}

		return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(assignmentEmbed(assignment))
	}
}

const membersPerField = 50

func (s Service) handleShowMembers(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	roleValue := strings.TrimSpace(webhook.Option("role"))
	if len(roleValue) == 0 {
		return discord.NewEphemeral(false, "Give a role to list."), nil
	}

	ephemeral := webhook.Option("visibility") != "public"

	return discord.AsyncResponse(false, ephemeral), func(ctx context.Context) discord.InteractionResponse {
		role, holders, err := s.provision.RoleMembers(ctx, webhook.GuildID, roleValue)
		if err != nil {
			return errorResponse(err)
		}

		response := discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(membersEmbed(role, holders))
		if ephemeral {
			response = response.Ephemeral()
		}

		return response
	}
}

func mentionList(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}

	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = fmt.Sprintf("<@%s>", id)
	}

	return strings.Join(mentions, " ")
}
