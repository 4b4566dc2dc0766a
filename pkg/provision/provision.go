package provision

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/majordome/pkg/discord"
)

// Kind of managed channel
type Kind string

const (
	KindEvent   Kind = "event"
	KindProject Kind = "project"
	KindClub    Kind = "club"
)

// Settings describes where a kind of channel lives and who may request one
type Settings struct {
	Category        string
	ArchiveCategory string
	RequestChannel  string
	Indexed         bool
}

// API is the Discord surface needed to provision channels and roles
type API interface {
	GuildChannels(ctx context.Context, guildID string) ([]discord.Channel, error)
	GuildRoles(ctx context.Context, guildID string) ([]discord.Role, error)
	Member(ctx context.Context, guildID, userID string) (discord.GuildMember, error)
	GuildMembers(ctx context.Context, guildID string) ([]discord.GuildMember, error)
	CreateChannel(ctx context.Context, guildID, name, parentID string) (discord.Channel, error)
	MoveChannel(ctx context.Context, channelID, parentID string, syncPermissions bool) (discord.Channel, error)
	CreateRole(ctx context.Context, guildID, name string, mentionable bool) (discord.Role, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

type Service struct {
	api   API
	kinds map[Kind]Settings
}

type Config struct {
	eventCategory          *string
	eventArchiveCategory   *string
	eventRequestChannel    *string
	projectCategory        *string
	projectArchiveCategory *string
	projectRequestChannel  *string
	clubCategory           *string
	clubRequestChannel     *string
}

// Flags adds flags for configuring package
func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		eventCategory:          flags.String(fs, prefix, "provision", "EventCategory", "", "Category for active event channels", "", "", overrides),
		eventArchiveCategory:   flags.String(fs, prefix, "provision", "EventArchiveCategory", "", "Category for archived event channels", "", "", overrides),
		eventRequestChannel:    flags.String(fs, prefix, "provision", "EventRequestChannel", "", "Channel where event creations are requested", "", "", overrides),
		projectCategory:        flags.String(fs, prefix, "provision", "ProjectCategory", "", "Category for active project channels", "", "", overrides),
		projectArchiveCategory: flags.String(fs, prefix, "provision", "ProjectArchiveCategory", "", "Category for archived project channels", "", "", overrides),
		projectRequestChannel:  flags.String(fs, prefix, "provision", "ProjectRequestChannel", "", "Channel where project creations are requested", "", "", overrides),
		clubCategory:           flags.String(fs, prefix, "provision", "ClubCategory", "", "Category for club channels", "", "", overrides),
		clubRequestChannel:     flags.String(fs, prefix, "provision", "ClubRequestChannel", "", "Channel where club creations are requested", "", "", overrides),
	}
}

// New creates new Service from Config
func New(config Config, api API) (Service, error) {
	kinds := map[Kind]Settings{
		KindEvent: {
			Category:        strings.TrimSpace(*config.eventCategory),
			ArchiveCategory: strings.TrimSpace(*config.eventArchiveCategory),
			RequestChannel:  strings.TrimSpace(*config.eventRequestChannel),
			Indexed:         true,
		},
		KindProject: {
			Category:        strings.TrimSpace(*config.projectCategory),
			ArchiveCategory: strings.TrimSpace(*config.projectArchiveCategory),
			RequestChannel:  strings.TrimSpace(*config.projectRequestChannel),
			Indexed:         true,
		},
		KindClub: {
			Category:       strings.TrimSpace(*config.clubCategory),
			RequestChannel: strings.TrimSpace(*config.clubRequestChannel),
		},
	}

	for kind, settings := range kinds {
		if len(settings.Category) == 0 {
			return Service{}, fmt.Errorf("no category configured for kind `%s`", kind)
		}

		if settings.Indexed && len(settings.ArchiveCategory) == 0 {
			return Service{}, fmt.Errorf("no archive category configured for kind `%s`", kind)
		}
	}

	return Service{
		api:   api,
		kinds: kinds,
	}, nil
}

// Settings returns the settings of the given kind
func (s Service) Settings(kind Kind) (Settings, bool) {
	settings, ok := s.kinds[kind]
	return settings, ok
}

func findCategory(channels []discord.Channel, name string) (discord.Channel, bool) {
	for _, channel := range channels {
		if channel.Type == discord.GuildCategoryChannel && channel.Name == name {
			return channel, true
		}
	}

	return discord.Channel{}, false
}

func findTextChannel(channels []discord.Channel, name string) (discord.Channel, bool) {
	for _, channel := range channels {
		if channel.Type == discord.GuildTextChannel && channel.Name == name {
			return channel, true
		}
	}

	return discord.Channel{}, false
}

func findRoleByName(roles []discord.Role, name string) (discord.Role, bool) {
	for _, role := range roles {
		if role.Name == name {
			return role, true
		}
	}

	return discord.Role{}, false
}

func findRoleByID(roles []discord.Role, id string) (discord.Role, bool) {
	for _, role := range roles {
		if role.ID == id {
			return role, true
		}
	}

	return discord.Role{}, false
}
