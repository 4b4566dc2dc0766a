package majordome

import "github.com/ViBiOh/majordome/pkg/discord"

// Commands returns the application commands to register, scoped to the given
// guilds or global when none is given.
func Commands(guilds []string) map[string]discord.Command {
	allKinds := []discord.Choice{
		{Name: "Club", Value: "club"},
		{Name: "Event", Value: "event"},
		{Name: "Project", Value: "project"},
	}

	indexedKinds := []discord.Choice{
		{Name: "Event", Value: "event"},
		{Name: "Project", Value: "project"},
	}

	docChoices := make([]discord.Choice, 0, len(commandDocs))
	for name := range commandDocs {
		docChoices = append(docChoices, discord.Choice{Name: name, Value: name})
	}

	return map[string]discord.Command{
		createCommand: {
			Name:        createCommand,
			Description: "Create a channel and its companion role",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "category",
					Description: "Kind of channel",
					Type:        discord.StringOption,
					Required:    true,
					Choices:     allKinds,
				},
				{
					Name:        "name",
					Description: "Name of the channel",
					Type:        discord.StringOption,
					Required:    true,
				},
				{
					Name:        "members",
					Description: "Members to grant the role to, as mentions",
					Type:        discord.StringOption,
				},
			},
		},
		archiveCommand: {
			Name:        archiveCommand,
			Description: "Move a channel to its archive category",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "category",
					Description: "Kind of channel",
					Type:        discord.StringOption,
					Required:    true,
					Choices:     indexedKinds,
				},
				{
					Name:        "channel",
					Description: "Channel name, defaults to the invoking channel",
					Type:        discord.StringOption,
				},
			},
		},
		restoreCommand: {
			Name:        restoreCommand,
			Description: "Move an archived channel back to its active category",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "category",
					Description: "Kind of channel",
					Type:        discord.StringOption,
					Required:    true,
					Choices:     indexedKinds,
				},
				{
					Name:        "channel",
					Description: "Channel name, defaults to the invoking channel",
					Type:        discord.StringOption,
				},
			},
		},
		addMembersCommand: {
			Name:        addMembersCommand,
			Description: "Grant a channel's role to members",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "category",
					Description: "Kind of channel",
					Type:        discord.StringOption,
					Required:    true,
					Choices:     allKinds,
				},
				{
					Name:        "members",
					Description: "Members to add, as mentions",
					Type:        discord.StringOption,
					Required:    true,
				},
				{
					Name:        "role",
					Description: "Role mention, defaults to the invoking channel's role",
					Type:        discord.StringOption,
				},
			},
		},
		showMembersCommand: {
			Name:        showMembersCommand,
			Description: "List the members holding a role",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "role",
					Description: "Role mention",
					Type:        discord.StringOption,
					Required:    true,
				},
				{
					Name:        "visibility",
					Description: "Answer visibility, private by default",
					Type:        discord.StringOption,
					Choices: []discord.Choice{
						{Name: "Private", Value: "private"},
						{Name: "Public", Value: "public"},
					},
				},
			},
		},
		helpCommand: {
			Name:        helpCommand,
			Description: "Overview of the bot's commands",
			Guilds:      guilds,
		},
		docsCommand: {
			Name:        docsCommand,
			Description: "Detailed documentation of a command",
			Guilds:      guilds,
			Options: []discord.CommandOption{
				{
					Name:        "command",
					Description: "Command to document",
					Type:        discord.StringOption,
					Choices:     docChoices,
				},
			},
		},
	}
}
