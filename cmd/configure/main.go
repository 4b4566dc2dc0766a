package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/majordome"
)

func main() {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	fs.Usage = flags.Usage(fs)

	loggerConfig := logger.Flags(fs, "logger")
	discordConfig := discord.Flags(fs, "")
	guildsValue := flags.String(fs, "", "configure", "Guilds", "", "Comma-separated guild IDs, empty for a global registration", "", "", nil)

	_ = fs.Parse(os.Args[1:])

	ctx := context.Background()

	logger.Init(ctx, loggerConfig)

	discordService, err := discord.New(discordConfig, "", nil)
	logger.FatalfOnErr(ctx, err, "discord")

	var guilds []string
	for _, guild := range strings.Split(*guildsValue, ",") {
		if guild = strings.TrimSpace(guild); len(guild) != 0 {
			guilds = append(guilds, guild)
		}
	}

	logger.FatalfOnErr(ctx, discordService.ConfigureCommands(ctx, majordome.Commands(guilds)), "configure commands")
}
