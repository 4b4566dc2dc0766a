package discord

import (
	"context"
	"fmt"
	"log/slog"
)

const customIDMaxLen = 100

type interactionType uint

const (
	pingInteraction               interactionType = 1
	ApplicationCommandInteraction interactionType = 2
	MessageComponentInteraction   interactionType = 3
)

type InteractionCallbackType uint

const (
	pongCallback                     InteractionCallbackType = 1
	ChannelMessageWithSource         InteractionCallbackType = 4
	DeferredChannelMessageWithSource InteractionCallbackType = 5
	DeferredUpdateMessage            InteractionCallbackType = 6
	UpdateMessageCallback            InteractionCallbackType = 7
)

type componentType uint

const (
	ActionRowType componentType = 1
	buttonType    componentType = 2
)

type buttonStyle uint

const (
	PrimaryButton   buttonStyle = 1
	SecondaryButton buttonStyle = 2
	DangerButton    buttonStyle = 4
)

const (
	// StringOption is the application command option type for strings
	StringOption int = 3
)

const (
	EphemeralMessage int = 1 << 6
)

type InteractionRequest struct {
	Member        Member  `json:"member"`
	ID            string  `json:"id"`
	GuildID       string  `json:"guild_id"`
	Token         string  `json:"token"`
	ApplicationID string  `json:"application_id"`
	ChannelID     string  `json:"channel_id"`
	Channel       Channel `json:"channel"`
	Message       struct {
		ID          string `json:"id"`
		Interaction struct {
			Name string `json:"name"`
		} `json:"interaction"`
	} `json:"message"`
	Data struct {
		Name     string          `json:"name"`
		CustomID string          `json:"custom_id"`
		Options  []CommandOption `json:"options"`
	} `json:"data"`
	Type interactionType `json:"type"`
}

// InGuild tells whether the interaction was invoked from a guild channel
func (i InteractionRequest) InGuild() bool {
	return len(i.GuildID) != 0 && len(i.Member.User.ID) != 0
}

// Option returns the value of the named command option, or an empty string
func (i InteractionRequest) Option(name string) string {
	for _, option := range i.Data.Options {
		if option.Name == name {
			return option.Value
		}
	}

	return ""
}

type Member struct {
	User  User     `json:"user,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
}

func (u User) Mention() string {
	return fmt.Sprintf("<@%s>", u.ID)
}

type InteractionDataResponse struct {
	Content         string          `json:"content,omitempty"`
	AllowedMentions AllowedMentions `json:"allowed_mentions"`
	Embeds          []Embed         `json:"embeds"`     // no `omitempty` to pass empty array when cleared
	Components      []Component     `json:"components"` // no `omitempty` to pass empty array when cleared
	Flags           int             `json:"flags"`
}

// NewDataResponse create a data response
func NewDataResponse(content string) InteractionDataResponse {
	return InteractionDataResponse{
		Content: content,
		AllowedMentions: AllowedMentions{
			Parse: []string{},
		},
	}
}

// AllowMentions opens the response to the given mention types, e.g. "roles"
func (d InteractionDataResponse) AllowMentions(parse ...string) InteractionDataResponse {
	d.AllowedMentions.Parse = parse
	return d
}

// AddEmbed add given embed to response
func (d InteractionDataResponse) AddEmbed(embed Embed) InteractionDataResponse {
	if d.Embeds == nil {
		d.Embeds = []Embed{embed}
	} else {
		d.Embeds = append(d.Embeds, embed)
	}

	return d
}

// AddComponent add given component to response
func (d InteractionDataResponse) AddComponent(component Component) InteractionDataResponse {
	if d.Components == nil {
		d.Components = []Component{component}
	} else {
		d.Components = append(d.Components, component)
	}

	return d
}

type InteractionResponse struct {
	Data InteractionDataResponse `json:"data,omitempty"`
	Type InteractionCallbackType `json:"type,omitempty"`
}

func NewResponse(iType InteractionCallbackType, content string) InteractionResponse {
	return InteractionResponse{
		Type: iType,
		Data: NewDataResponse(content),
	}
}

func (i InteractionResponse) Ephemeral() InteractionResponse {
	i.Data.Flags = EphemeralMessage
	return i
}

func (i InteractionResponse) AddEmbed(embed Embed) InteractionResponse {
	i.Data = i.Data.AddEmbed(embed)
	return i
}

func (i InteractionResponse) AddComponent(component Component) InteractionResponse {
	i.Data = i.Data.AddComponent(component)
	return i
}

func AsyncResponse(replace, ephemeral bool) InteractionResponse {
	response := InteractionResponse{
		Type: DeferredChannelMessageWithSource,
	}

	if replace {
		response.Type = DeferredUpdateMessage
	}

	if ephemeral {
		response.Data.Flags = EphemeralMessage
	}

	return response
}

func NewError(replace bool, err error) InteractionResponse {
	return NewEphemeral(replace, fmt.Sprintf("Oh! It's broken 😱. Reason is: %s", err))
}

func NewEphemeral(replace bool, content string) InteractionResponse {
	callback := ChannelMessageWithSource
	if replace {
		callback = UpdateMessageCallback
	}

	instance := InteractionResponse{Type: callback}
	instance.Data.Content = content
	instance.Data.Flags = EphemeralMessage
	instance.Data.Embeds = []Embed{}
	instance.Data.Components = []Component{}

	return instance
}

type AllowedMentions struct {
	Parse []string `json:"parse"`
}

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Color       int     `json:"color,omitempty"`
}

func (e Embed) SetColor(color int) Embed {
	e.Color = color
	return e
}

func (e Embed) AddField(field Field) Embed {
	e.Fields = append(e.Fields, field)
	return e
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

func NewField(name, value string) Field {
	return Field{
		Name:   name,
		Value:  value,
		Inline: true,
	}
}

func NewTextField(name, value string) Field {
	return Field{
		Name:  name,
		Value: value,
	}
}

type Component struct {
	Label      string        `json:"label,omitempty"`
	CustomID   string        `json:"custom_id,omitempty"`
	Components []Component   `json:"components,omitempty"`
	Type       componentType `json:"type,omitempty"`
	Style      buttonStyle   `json:"style,omitempty"`
}

func NewButton(style buttonStyle, label, customID string) Component {
	if len(customID) > customIDMaxLen {
		slog.LogAttrs(context.Background(), slog.LevelWarn, "`custom_id` exceeds max characters", slog.Int("max", customIDMaxLen))
	}

	return Component{
		Type:     buttonType,
		Style:    style,
		Label:    label,
		CustomID: customID,
	}
}

func NewActionRow(components ...Component) Component {
	return Component{
		Type:       ActionRowType,
		Components: components,
	}
}

type Command struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Options     []CommandOption `json:"options,omitempty"`
	Guilds      []string        `json:"-"`
}

type CommandOption struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Value       string   `json:"value,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	Type        int      `json:"type,omitempty"`
	Required    bool     `json:"required,omitempty"`
}

type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
