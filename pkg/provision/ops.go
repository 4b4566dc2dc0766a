package provision

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ViBiOh/majordome/pkg/discord"
	"golang.org/x/sync/errgroup"
)

const assignConcurrency = 4

const administratorPermission = 1 << 3

// Creation is the outcome of a channel creation
type Creation struct {
	Channel discord.Channel
	Role    discord.Role
	Members []string
	Index   int
}

// Assignment is the outcome of a role membership change
type Assignment struct {
	Role    discord.Role
	Channel discord.Channel
	Added   []string
	Skipped []string
}

// Create provisions a channel and its companion role for the given kind and
// grants the role to the given members.
func (s Service) Create(ctx context.Context, guildID string, kind Kind, name string, members []string) (Creation, error) {
	settings, ok := s.kinds[kind]
	if !ok {
		return Creation{}, fmt.Errorf("%w: `%s`", ErrUnknownKind, kind)
	}

	channels, err := s.api.GuildChannels(ctx, guildID)
	if err != nil {
		return Creation{}, fmt.Errorf("list channels: %w", err)
	}

	category, ok := findCategory(channels, settings.Category)
	if !ok {
		return Creation{}, fmt.Errorf("%w: category `%s` does not exist, contact an administrator to update the server", ErrCategoryNotFound, settings.Category)
	}

	var creation Creation

	channelName := name
	roleName := name

	if settings.Indexed {
		var archiveID string
		if archive, ok := findCategory(channels, settings.ArchiveCategory); ok {
			archiveID = archive.ID
		}

		creation.Index = NextIndex(channels, category.ID, archiveID)
		channelName = fmt.Sprintf("%d-%s", creation.Index, name)

		roleName = channelName
		if kind == KindProject {
			roleName = fmt.Sprintf("p%02d", creation.Index)
		}
	} else {
		for _, channel := range channels {
			if channel.ParentID == category.ID && channel.Name == channelName {
				return Creation{}, fmt.Errorf("%w: `%s` is already in the `%s` category, use another name", ErrChannelExists, channelName, settings.Category)
			}
		}
	}

	creation.Channel, err = s.api.CreateChannel(ctx, guildID, channelName, category.ID)
	if err != nil {
		return Creation{}, fmt.Errorf("create channel: %w", err)
	}

	creation.Role, err = s.api.CreateRole(ctx, guildID, roleName, true)
	if err != nil {
		return creation, fmt.Errorf("create role: %w", err)
	}

	if len(members) != 0 {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(assignConcurrency)

		for _, member := range members {
			group.Go(func() error {
				return s.api.AddMemberRole(groupCtx, guildID, member, creation.Role.ID)
			})
		}

		if err := group.Wait(); err != nil {
			return creation, fmt.Errorf("assign role: %w", err)
		}

		creation.Members = members
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "channel provisioned",
		slog.String("kind", string(kind)),
		slog.String("channel", creation.Channel.Name),
		slog.String("role", creation.Role.Name),
		slog.Int("members", len(creation.Members)))

	return creation, nil
}

// Archive moves a channel of the given kind to its archive category. The
// channel defaults to the invoking one when no name is given.
func (s Service) Archive(ctx context.Context, guildID string, kind Kind, channelName string, invoking discord.Channel) (discord.Channel, error) {
	return s.move(ctx, guildID, kind, channelName, invoking, false)
}

// Restore moves an archived channel of the given kind back to its active
// category.
func (s Service) Restore(ctx context.Context, guildID string, kind Kind, channelName string, invoking discord.Channel) (discord.Channel, error) {
	return s.move(ctx, guildID, kind, channelName, invoking, true)
}

func (s Service) move(ctx context.Context, guildID string, kind Kind, channelName string, invoking discord.Channel, restore bool) (discord.Channel, error) {
	settings, ok := s.kinds[kind]
	if !ok || !settings.Indexed {
		return discord.Channel{}, fmt.Errorf("%w: `%s`", ErrUnknownKind, kind)
	}

	channels, err := s.api.GuildChannels(ctx, guildID)
	if err != nil {
		return discord.Channel{}, fmt.Errorf("list channels: %w", err)
	}

	sourceName, targetName := settings.Category, settings.ArchiveCategory
	if restore {
		sourceName, targetName = settings.ArchiveCategory, settings.Category
	}

	target, ok := findCategory(channels, targetName)
	if !ok {
		return discord.Channel{}, fmt.Errorf("%w: category `%s` does not exist, contact an administrator to update the server", ErrCategoryNotFound, targetName)
	}

	source, ok := findCategory(channels, sourceName)
	if !ok {
		return discord.Channel{}, fmt.Errorf("%w: category `%s` does not exist, contact an administrator to update the server", ErrCategoryNotFound, sourceName)
	}

	channel := invoking
	if len(channelName) != 0 {
		if channel, ok = findTextChannel(channels, channelName); !ok {
			return discord.Channel{}, fmt.Errorf("%w: `%s`, check the channel name", ErrChannelNotFound, channelName)
		}
	}

	if channel.ParentID != source.ID {
		return discord.Channel{}, fmt.Errorf("%w: `%s` is not in the `%s` category, run the command there or give a channel name", ErrNotInCategory, channel.Name, sourceName)
	}

	moved, err := s.api.MoveChannel(ctx, channel.ID, target.ID, kind == KindProject)
	if err != nil {
		return discord.Channel{}, fmt.Errorf("move channel: %w", err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "channel moved",
		slog.String("kind", string(kind)),
		slog.String("channel", channel.Name),
		slog.String("category", targetName))

	return moved, nil
}

// AddRoleMembers grants a kind's channel role to the given members. The role
// defaults to the one matching the invoking channel. Members already holding
// the role are reported in Skipped.
func (s Service) AddRoleMembers(ctx context.Context, guildID string, kind Kind, roleValue string, invoking discord.Channel, members []string) (Assignment, error) {
	settings, ok := s.kinds[kind]
	if !ok {
		return Assignment{}, fmt.Errorf("%w: `%s`", ErrUnknownKind, kind)
	}

	channels, err := s.api.GuildChannels(ctx, guildID)
	if err != nil {
		return Assignment{}, fmt.Errorf("list channels: %w", err)
	}

	category, ok := findCategory(channels, settings.Category)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: category `%s` does not exist, contact an administrator to update the server", ErrCategoryNotFound, settings.Category)
	}

	roles, err := s.api.GuildRoles(ctx, guildID)
	if err != nil {
		return Assignment{}, fmt.Errorf("list roles: %w", err)
	}

	role, err := s.resolveRole(kind, roleValue, invoking, category, roles)
	if err != nil {
		return Assignment{}, err
	}

	if !IsSafeRole(role, guildID) {
		return Assignment{}, fmt.Errorf("%w: `%s`", ErrUnsafeRole, role.Name)
	}

	channel, ok := channelForRole(kind, role, channels, category)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: only roles backing a channel of the `%s` category can be managed", ErrNoChannelForRole, settings.Category)
	}

	assignment := Assignment{
		Role:    role,
		Channel: channel,
	}

	for _, memberID := range members {
		member, err := s.api.Member(ctx, guildID, memberID)
		if err != nil {
			return assignment, fmt.Errorf("get member: %w", err)
		}

		if slices.Contains(member.Roles, role.ID) {
			assignment.Skipped = append(assignment.Skipped, memberID)
			continue
		}

		if err := s.api.AddMemberRole(ctx, guildID, memberID, role.ID); err != nil {
			return assignment, fmt.Errorf("add member role: %w", err)
		}

		assignment.Added = append(assignment.Added, memberID)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "role members added",
		slog.String("kind", string(kind)),
		slog.String("role", role.Name),
		slog.Int("added", len(assignment.Added)),
		slog.Int("skipped", len(assignment.Skipped)))

	return assignment, nil
}

func (s Service) resolveRole(kind Kind, roleValue string, invoking discord.Channel, category discord.Channel, roles []discord.Role) (discord.Role, error) {
	if len(roleValue) != 0 {
		roleID, err := ParseRoleMention(roleValue)
		if err != nil {
			return discord.Role{}, err
		}

		role, ok := findRoleByID(roles, roleID)
		if !ok {
			return discord.Role{}, fmt.Errorf("%w: `%s`", ErrRoleNotFound, roleValue)
		}

		return role, nil
	}

	if invoking.ParentID != category.ID {
		return discord.Role{}, fmt.Errorf("%w: run the command in a channel of the `%s` category or give a role", ErrNotInCategory, category.Name)
	}

	roleName := invoking.Name

	if kind == KindProject {
		index, ok := ChannelIndex(invoking.Name)
		if !ok {
			return discord.Role{}, fmt.Errorf("%w: `%s` has no index prefix", ErrNoChannelForRole, invoking.Name)
		}

		roleName = fmt.Sprintf("p%02d", index)
	}

	role, ok := findRoleByName(roles, roleName)
	if !ok {
		return discord.Role{}, fmt.Errorf("%w: `%s`", ErrRoleNotFound, roleName)
	}

	return role, nil
}

// channelForRole finds the category channel backing the role: same name for
// event and club roles, `{index}-` prefix for `p{index}` project roles.
func channelForRole(kind Kind, role discord.Role, channels []discord.Channel, category discord.Channel) (discord.Channel, bool) {
	if kind == KindProject {
		index, err := strconv.Atoi(strings.TrimPrefix(role.Name, "p"))
		if err != nil {
			return discord.Channel{}, false
		}

		prefix := fmt.Sprintf("%d-", index)

		for _, channel := range channels {
			if channel.ParentID == category.ID && strings.HasPrefix(channel.Name, prefix) {
				return channel, true
			}
		}

		return discord.Channel{}, false
	}

	for _, channel := range channels {
		if channel.ParentID == category.ID && channel.Name == role.Name {
			return channel, true
		}
	}

	return discord.Channel{}, false
}

// RoleMembers lists guild members holding the given role mention
func (s Service) RoleMembers(ctx context.Context, guildID, roleValue string) (discord.Role, []discord.GuildMember, error) {
	roleID, err := ParseRoleMention(roleValue)
	if err != nil {
		return discord.Role{}, nil, err
	}

	roles, err := s.api.GuildRoles(ctx, guildID)
	if err != nil {
		return discord.Role{}, nil, fmt.Errorf("list roles: %w", err)
	}

	role, ok := findRoleByID(roles, roleID)
	if !ok {
		return discord.Role{}, nil, fmt.Errorf("%w: `%s`", ErrRoleNotFound, roleValue)
	}

	if !IsSafeRole(role, guildID) {
		return discord.Role{}, nil, fmt.Errorf("%w: `%s`", ErrUnsafeRole, role.Name)
	}

	members, err := s.api.GuildMembers(ctx, guildID)
	if err != nil {
		return discord.Role{}, nil, fmt.Errorf("list members: %w", err)
	}

	var holders []discord.GuildMember
	for _, member := range members {
		if slices.Contains(member.Roles, role.ID) {
			holders = append(holders, member)
		}
	}

	return role, holders, nil
}

// IsSafeRole tells whether the bot may hand out or list the role: not
// `@everyone`, not managed by an integration and without the administrator
// permission.
func IsSafeRole(role discord.Role, guildID string) bool {
	if role.ID == guildID || role.Managed {
		return false
	}

	permissions, err := strconv.ParseUint(role.Permissions, 10, 64)
	if err != nil {
		return false
	}

	return permissions&administratorPermission == 0
}
