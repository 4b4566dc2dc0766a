package discord

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedRequest(t *testing.T, private ed25519.PrivateKey, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	timestamp := "1234567890"
	signature := ed25519.Sign(private, []byte(timestamp+body))

	req.Header.Set("X-Signature-Timestamp", timestamp)
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(signature))

	return req
}

func TestHandler(t *testing.T) {
	t.Parallel()

	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	service := Service{publicKey: public}

	t.Run("ping", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		service.Handler().ServeHTTP(recorder, signedRequest(t, private, `{"type":1}`))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"type":1,"data":{"allowed_mentions":{"parse":null},"embeds":null,"components":null,"flags":0}}`, recorder.Body.String())
	})

	t.Run("invalid signature", func(t *testing.T) {
		t.Parallel()

		req := signedRequest(t, private, `{"type":1}`)
		req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))

		recorder := httptest.NewRecorder()
		service.Handler().ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("tampered body", func(t *testing.T) {
		t.Parallel()

		req := signedRequest(t, private, `{"type":1}`)
		req.Header.Set("X-Signature-Timestamp", "9999999999")

		recorder := httptest.NewRecorder()
		service.Handler().ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("command dispatched to handler", func(t *testing.T) {
		t.Parallel()

		var receivedName string

		handled := service.HandleWith(func(_ context.Context, webhook InteractionRequest) (InteractionResponse, func(context.Context) InteractionResponse) {
			receivedName = webhook.Data.Name
			return NewEphemeral(false, "done"), nil
		})

		recorder := httptest.NewRecorder()
		handled.Handler().ServeHTTP(recorder, signedRequest(t, private, `{"type":2,"data":{"name":"help"}}`))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "help", receivedName)
		assert.Contains(t, recorder.Body.String(), "done")
	})

	t.Run("no handler configured", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		service.Handler().ServeHTTP(recorder, signedRequest(t, private, `{"type":2,"data":{"name":"help"}}`))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestInteractionRequest(t *testing.T) {
	t.Parallel()

	var webhook InteractionRequest
	assert.False(t, webhook.InGuild())

	webhook.GuildID = "guild"
	webhook.Member.User.ID = "1"
	assert.True(t, webhook.InGuild())

	webhook.Data.Options = []CommandOption{{Name: "category", Value: "event"}}
	assert.Equal(t, "event", webhook.Option("category"))
	assert.Empty(t, webhook.Option("nope"))
}

func TestNewEphemeral(t *testing.T) {
	t.Parallel()

	response := NewEphemeral(false, "content")
	assert.Equal(t, ChannelMessageWithSource, response.Type)
	assert.Equal(t, EphemeralMessage, response.Data.Flags)

	response = NewEphemeral(true, "content")
	assert.Equal(t, UpdateMessageCallback, response.Type)
}
