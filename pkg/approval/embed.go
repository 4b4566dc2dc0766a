package approval

import (
	"fmt"
	"time"

	"github.com/ViBiOh/majordome/pkg/discord"
)

const (
	colorGreen  = 0x2ECC71
	colorRed    = 0xE74C3C
	colorBlue   = 0x3498DB
	colorOrange = 0xE67E22
)

func requestEmbed(submission Submission, expiresAt time.Time) discord.Embed {
	return discord.Embed{
		Title:       fmt.Sprintf("Approval needed: /%s", submission.Command),
		Description: submission.Description,
		Color:       colorBlue,
		Fields: []discord.Field{
			discord.NewField("Requested by", submission.Requester.User.Mention()),
			discord.NewField("Expires", fmt.Sprintf("<t:%d:R>", expiresAt.Unix())),
		},
	}
}

func detailsEmbed(submission Submission) discord.Embed {
	embed := discord.Embed{
		Title: "Request details",
		Color: colorBlue,
	}

	for _, field := range submission.Arguments {
		embed = embed.AddField(field)
	}

	if len(embed.Fields) == 0 {
		embed.Description = "No arguments."
	}

	return embed
}

func decidedEmbed(pending *request, title, description string, color int) discord.Embed {
	return discord.Embed{
		Title:       fmt.Sprintf("%s: /%s", title, pending.command),
		Description: description,
		Color:       color,
		Fields: []discord.Field{
			discord.NewField("Requested by", pending.requester.User.Mention()),
		},
	}
}
