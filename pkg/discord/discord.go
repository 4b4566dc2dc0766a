package discord

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/httperror"
	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/query"
	"github.com/ViBiOh/httputils/v4/pkg/request"
	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// OnMessage handles an interaction. It returns the synchronous response and
// an optional follow-up whose result replaces the deferred message.
type OnMessage func(context.Context, InteractionRequest) (InteractionResponse, func(context.Context) InteractionResponse)

var discordRequest = request.New().URL("https://discord.com/api/v10")

type Service struct {
	tracer        trace.Tracer
	handler       OnMessage
	rest          request.Request
	applicationID string
	clientID      string
	clientSecret  string
	website       string
	publicKey     []byte
}

type Config struct {
	applicationID *string
	publicKey     *string
	clientID      *string
	clientSecret  *string
	botToken      *string
}

// Flags adds flags for configuring package
func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		applicationID: flags.String(fs, prefix, "discord", "ApplicationID", "", "Application ID", "", "", overrides),
		publicKey:     flags.String(fs, prefix, "discord", "PublicKey", "", "Public Key", "", "", overrides),
		clientID:      flags.String(fs, prefix, "discord", "ClientID", "", "Client ID", "", "", overrides),
		clientSecret:  flags.String(fs, prefix, "discord", "ClientSecret", "", "Client Secret", "", "", overrides),
		botToken:      flags.String(fs, prefix, "discord", "BotToken", "", "Bot Token", "", "", overrides),
	}
}

// New creates new Service from Config
func New(config Config, website string, tracerProvider trace.TracerProvider) (Service, error) {
	publicKeyStr := *config.publicKey
	if len(publicKeyStr) == 0 {
		return Service{}, nil
	}

	publicKey, err := hex.DecodeString(publicKeyStr)
	if err != nil {
		return Service{}, fmt.Errorf("decode public key string: %w", err)
	}

	service := Service{
		applicationID: *config.applicationID,
		publicKey:     publicKey,
		clientID:      *config.clientID,
		clientSecret:  *config.clientSecret,
		rest:          discordRequest.Header("Authorization", "Bot "+*config.botToken),
		website:       website,
	}

	if tracerProvider != nil {
		service.tracer = tracerProvider.Tracer("discord")
	}

	return service, nil
}

// HandleWith returns a copy of the service dispatching interactions to the
// given handler. Late binding breaks the construction cycle between the
// transport and the services built on top of its REST surface.
func (s Service) HandleWith(handler OnMessage) Service {
	s.handler = handler
	return s
}

// Handler for request. Should be used with net/http
func (s Service) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth" {
			s.handleOauth(w, r)
			return
		}

		if !s.checkSignature(r) {
			httperror.Unauthorized(r.Context(), w, errors.New("invalid signature"))
			return
		}

		if query.IsRoot(r) && r.Method == http.MethodPost {
			s.handleWebhook(w, r)
			return
		}

		httperror.NotFound(r.Context(), w)
	})
}

func (s Service) checkSignature(r *http.Request) bool {
	ctx := r.Context()

	sig, err := hex.DecodeString(r.Header.Get("X-Signature-Ed25519"))
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "decode signature string", slog.Any("error", err))
		return false
	}

	if len(sig) != ed25519.SignatureSize || sig[63]&224 != 0 {
		slog.LogAttrs(ctx, slog.LevelWarn, "length of signature is invalid", slog.Int("length", len(sig)))
		return false
	}

	body, err := request.ReadBodyRequest(r)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "read request body", slog.Any("error", err))
		return false
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var msg bytes.Buffer
	msg.WriteString(r.Header.Get("X-Signature-Timestamp"))
	msg.Write(body)

	return ed25519.Verify(s.publicKey, msg.Bytes(), sig)
}

func (s Service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var (
		message InteractionRequest
		err     error
	)

	ctx, end := telemetry.StartSpan(r.Context(), s.tracer, "webhook")
	defer end(&err)

	if err = httpjson.Parse(r, &message); err != nil {
		httperror.BadRequest(ctx, w, err)
		return
	}

	if message.Type == pingInteraction {
		httpjson.Write(ctx, w, http.StatusOK, InteractionResponse{Type: pongCallback})
		return
	}

	if s.handler == nil {
		httperror.InternalServerError(ctx, w, errors.New("no interaction handler configured"))
		return
	}

	response, asyncFn := s.handler(ctx, message)
	httpjson.Write(ctx, w, http.StatusOK, response)

	if asyncFn != nil {
		go func(ctx context.Context) {
			var err error

			ctx, end := telemetry.StartSpan(ctx, s.tracer, "async_webhook")
			defer end(&err)

			deferredResponse := asyncFn(ctx)

			resp, err := s.send(ctx, http.MethodPatch, fmt.Sprintf("/webhooks/%s/%s/messages/@original", s.applicationID, message.Token), deferredResponse.Data)
			if err != nil {
				slog.LogAttrs(ctx, slog.LevelError, "send async response", slog.Any("error", err))
				return
			}

			if err = request.DiscardBody(resp.Body); err != nil {
				slog.LogAttrs(ctx, slog.LevelError, "discard async body", slog.Any("error", err))
			}
		}(context.WithoutCancel(ctx))
	}
}

func (s Service) send(ctx context.Context, method, path string, data InteractionDataResponse) (resp *http.Response, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "send")
	defer end(&err)

	return discordRequest.Method(method).Path(path).StreamJSON(ctx, data)
}
