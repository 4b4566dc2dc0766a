package majordome

import (
	"context"
	"fmt"

	"github.com/ViBiOh/majordome/pkg/approval"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/provision"
)

const (
	createCommand      = "create_channel"
	archiveCommand     = "archive_channel"
	restoreCommand     = "restore_channel"
	addMembersCommand  = "add_role_members"
	showMembersCommand = "show_role_members"
	helpCommand        = "help"
	docsCommand        = "docs"
)

type Service struct {
	provision provision.Service
	approval  *approval.Service
}

// New creates new Service
func New(provisionService provision.Service, approvalService *approval.Service) Service {
	return Service{
		provision: provisionService,
		approval:  approvalService,
	}
}

// HandleInteraction routes an interaction to the matching command or, for
// component clicks, to the approval workflow. It satisfies discord.OnMessage.
func (s Service) HandleInteraction(ctx context.Context, webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	switch webhook.Type {
	case discord.MessageComponentInteraction:
		if !webhook.InGuild() {
			return guildOnly(), nil
		}

		return s.approval.HandleComponent(ctx, webhook), nil

	case discord.ApplicationCommandInteraction:
		return s.handleCommand(ctx, webhook)

	default:
		return discord.NewEphemeral(false, "Unknown interaction type."), nil
	}
}

func (s Service) handleCommand(ctx context.Context, webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	switch webhook.Data.Name {
	case helpCommand:
		return s.handleHelp(), nil
	case docsCommand:
		return s.handleDocs(webhook.Option("command")), nil
	}

	if !webhook.InGuild() {
		return guildOnly(), nil
	}

	switch webhook.Data.Name {
	case createCommand:
		return s.handleCreate(ctx, webhook)
	case archiveCommand:
		return s.handleMove(webhook, false)
	case restoreCommand:
		return s.handleMove(webhook, true)
	case addMembersCommand:
		return s.handleAddMembers(webhook)
	case showMembersCommand:
		return s.handleShowMembers(webhook)
	default:
		return discord.NewEphemeral(false, fmt.Sprintf("Unknown command `%s`.", webhook.Data.Name)), nil
	}
}

func guildOnly() discord.InteractionResponse {
	return discord.NewEphemeral(false, "This command can only be used in a server.")
}

// errorResponse renders an error for the invoking user. Validation errors are
// surfaced verbatim, anything else gets the generic failure message and only
// shows up in the logs.
func errorResponse(err error) discord.InteractionResponse {
	if provision.IsUsage(err) {
		return discord.NewEphemeral(false, fmt.Sprintf("🚫 %s", err))
	}

	return discord.NewError(false, err)
}

func parseKind(value string) (provision.Kind, error) {
	switch value {
	case "club", "clubs":
		return provision.KindClub, nil
	case "event", "events":
		return provision.KindEvent, nil
	case "project", "projects":
		return provision.KindProject, nil
	default:
		return "", fmt.Errorf("%w: `%s`", provision.ErrUnknownKind, value)
	}
}
