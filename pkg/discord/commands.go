package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
)

// ConfigureCommands registers the given application commands, globally or
// per-guild depending on each command's Guilds list.
func (s Service) ConfigureCommands(ctx context.Context, commands map[string]Command) error {
	if len(s.applicationID) == 0 {
		return nil
	}

	data := url.Values{}
	data.Add("grant_type", "client_credentials")
	data.Add("scope", "applications.commands.update")

	resp, err := discordRequest.Method(http.MethodPost).Path("/oauth2/token").BasicAuth(s.clientID, s.clientSecret).Form(ctx, data)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	var content map[string]any
	err = httpjson.Read(resp, &content)
	if err != nil {
		return fmt.Errorf("read oauth token: %w", err)
	}

	bearer, ok := content["access_token"].(string)
	if !ok {
		return fmt.Errorf("no access token in oauth response")
	}

	rootURL := fmt.Sprintf("/applications/%s", s.applicationID)

	for name, command := range commands {
		for _, registerURL := range getRegisterURLs(command) {
			absoluteURL := rootURL + registerURL

		configure:
			if resp, err := discordRequest.Method(http.MethodPost).Path(absoluteURL).Header("Authorization", fmt.Sprintf("Bearer %s", bearer)).StreamJSON(ctx, command); err != nil {
				if IsRetryable(ctx, resp) {
					goto configure
				}

				return fmt.Errorf("configure `%s` command for url `%s`: %w", name, registerURL, err)
			}

			slog.LogAttrs(ctx, slog.LevelInfo, "command configured", slog.String("name", name), slog.String("url", registerURL))
		}
	}

	return nil
}

func getRegisterURLs(command Command) []string {
	if len(command.Guilds) == 0 {
		return []string{"/commands"}
	}

	urls := make([]string, len(command.Guilds))

	for i, guild := range command.Guilds {
		urls[i] = fmt.Sprintf("/guilds/%s/commands", guild)
	}

	return urls
}
