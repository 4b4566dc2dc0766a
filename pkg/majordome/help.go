package majordome

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ViBiOh/majordome/pkg/discord"
)

type commandDoc struct {
	title        string
	description  string
	usage        string
	parameters   string
	restrictions string
	examples     string
}

var commandDocs = map[string]commandDoc{
	createCommand: {
		title:        "📅 /create_channel",
		description:  "Create a channel and its companion role in the given category.",
		usage:        "`/create_channel category:<club|event|project> name:<name> [members:@user1 @user2]`",
		parameters:   "`category`: kind of channel\n`name`: channel name, indexed kinds get a `{index}-` prefix\n`members`: mentions of members to grant the role to",
		restrictions: "Only in the category's request channel. Needs an approval unless you hold the approver role.",
		examples:     "`/create_channel category:event name:boardgame-night members:@alice @bob`",
	},
	archiveCommand: {
		title:        "📦 /archive_channel",
		description:  "Move a channel to its archive category.",
		usage:        "`/archive_channel category:<event|project> [channel:<name>]`",
		parameters:   "`category`: kind of channel\n`channel`: channel name, defaults to the invoking channel",
		restrictions: "The channel must be in the active category.",
		examples:     "`/archive_channel category:event`\n`/archive_channel category:project channel:3-hackathon`",
	},
	restoreCommand: {
		title:        "♻️ /restore_channel",
		description:  "Move an archived channel back to its active category.",
		usage:        "`/restore_channel category:<event|project> [channel:<name>]`",
		parameters:   "`category`: kind of channel\n`channel`: channel name, defaults to the invoking channel",
		restrictions: "The channel must be in the archive category.",
		examples:     "`/restore_channel category:event channel:2-boardgame-night`",
	},
	addMembersCommand: {
		title:        "👥 /add_role_members",
		description:  "Grant a channel's role to members.",
		usage:        "`/add_role_members category:<club|event|project> members:@user1 @user2 [role:@role]`",
		parameters:   "`category`: kind of channel\n`members`: mentions of members to add\n`role`: role mention, defaults to the invoking channel's role",
		restrictions: "Only roles backing a channel of the category. Managed, admin and `@everyone` roles are refused.",
		examples:     "`/add_role_members category:club members:@alice`\n`/add_role_members category:project members:@bob role:@p03`",
	},
	showMembersCommand: {
		title:        "👥 /show_role_members",
		description:  "List the members holding a role.",
		usage:        "`/show_role_members role:@role [visibility:<private|public>]`",
		parameters:   "`role`: role mention\n`visibility`: `private` (default) answers only to you",
		restrictions: "Managed, admin and `@everyone` roles are refused.",
		examples:     "`/show_role_members role:@5-boardgame-night visibility:public`",
	},
}

func (s Service) handleHelp() discord.InteractionResponse {
	embed := discord.Embed{
		Title:       "🤖 majordome",
		Description: "Server-management bot: channels, roles and approvals.",
		Color:       colorBlue,
		Fields: []discord.Field{
			discord.NewTextField("📅 Channel management", strings.Join([]string{
				"`/create_channel` create a channel and its role",
				"`/archive_channel` move a channel to the archive",
				"`/restore_channel` bring an archived channel back",
			}, "\n")),
			discord.NewTextField("👥 Role management", strings.Join([]string{
				"`/add_role_members` grant a channel's role to members",
				"`/show_role_members` list the members of a role",
			}, "\n")),
			discord.NewTextField("ℹ️ Help", "`/docs command:<name>` for details on a command"),
		},
	}

	return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(embed).Ephemeral()
}

func (s Service) handleDocs(command string) discord.InteractionResponse {
	doc, ok := commandDocs[command]
	if !ok {
		embed := discord.Embed{
			Title: "📚 Command documentation",
			Color: colorBlue,
		}

		if len(command) != 0 {
			embed.Title = "🚫 Unknown command"
			embed.Description = fmt.Sprintf("No documentation for `%s`.", command)
			embed.Color = colorRed
		}

		names := make([]string, 0, len(commandDocs))
		for name := range commandDocs {
			names = append(names, fmt.Sprintf("`%s`", name))
		}
		sort.Strings(names)

		embed = embed.AddField(discord.NewTextField("Available commands", strings.Join(names, ", ")))

		return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(embed).Ephemeral()
	}

	embed := discord.Embed{
		Title:       doc.title,
		Description: doc.description,
		Color:       colorBlue,
		Fields: []discord.Field{
			discord.NewTextField("📝 Usage", doc.usage),
			discord.NewTextField("⚙️ Parameters", doc.parameters),
			discord.NewTextField("🚫 Restrictions", doc.restrictions),
			discord.NewTextField("💡 Examples", doc.examples),
		},
	}

	return discord.NewResponse(discord.ChannelMessageWithSource, "").AddEmbed(embed).Ephemeral()
}
