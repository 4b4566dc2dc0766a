package majordome

import (
	"fmt"

	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/provision"
)

const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
)

func creationEmbed(kind provision.Kind, creation provision.Creation) discord.Embed {
	embed := discord.Embed{
		Title:       fmt.Sprintf("✅ %s channel created", kind),
		Description: fmt.Sprintf("%s is ready, the %s role grants access to it.", creation.Channel.Mention(), creation.Role.Mention()),
		Color:       colorGreen,
		Fields: []discord.Field{
			discord.NewField("Channel", creation.Channel.Mention()),
			discord.NewField("Role", creation.Role.Mention()),
		},
	}

	if len(creation.Members) != 0 {
		embed = embed.AddField(discord.NewTextField("Members", mentionList(creation.Members)))
	}

	return embed
}

func moveEmbed(kind provision.Kind, channel discord.Channel, restore bool) discord.Embed {
	title := fmt.Sprintf("📦 %s channel archived", kind)
	description := fmt.Sprintf("%s was moved to the archive.", channel.Mention())

	if restore {
		title = fmt.Sprintf("♻️ %s channel restored", kind)
		description = fmt.Sprintf("%s is active again.", channel.Mention())
	}

	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       colorGreen,
	}
}

func assignmentEmbed(assignment provision.Assignment) discord.Embed {
	embed := discord.Embed{
		Title:       "👥 Role members added",
		Description: fmt.Sprintf("%s grants access to %s.", assignment.Role.Mention(), assignment.Channel.Mention()),
		Color:       colorGreen,
	}

	if len(assignment.Added) != 0 {
		embed = embed.AddField(discord.NewTextField("Added", mentionList(assignment.Added)))
	}

	if len(assignment.Skipped) != 0 {
		embed = embed.AddField(discord.NewTextField("Already members", mentionList(assignment.Skipped)))
	}

	return embed
}

func membersEmbed(role discord.Role, holders []discord.GuildMember) discord.Embed {
	embed := discord.Embed{
		Title: fmt.Sprintf("👥 Members of %s", role.Name),
		Color: colorBlue,
	}

	if len(holders) == 0 {
		embed.Description = "Nobody holds this role."
		return embed
	}

	embed.Description = fmt.Sprintf("%d member(s)", len(holders))

	for start := 0; start < len(holders); start += membersPerField {
		end := min(start+membersPerField, len(holders))

		var value string
		for _, holder := range holders[start:end] {
			value += holder.User.Mention() + "\n"
		}

		embed = embed.AddField(discord.NewTextField(fmt.Sprintf("%d-%d", start+1, end), value))
	}

	return embed
}

func failureEmbed(command string, err error) discord.Embed {
	description := "Something went wrong, check the logs."
	if provision.IsUsage(err) {
		description = err.Error()
	}

	return discord.Embed{
		Title:       fmt.Sprintf("🚫 /%s failed", command),
		Description: description,
		Color:       colorRed,
	}
}
