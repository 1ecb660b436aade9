package qglide

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	"github.com/Temutjin2k/qglide-admin/pkg/hasher"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/record"
)

var accessTokenPaths = []envelope.Path{
	{"access_token"},
	{"data", "access_token"},
	{"session", "access_token"},
	{"data", "session", "access_token"},
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	const op = "Client.Login"
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	body, err := c.doJSON(ctx, request{
		method:   http.MethodPost,
		endpoint: endpointLogin,
		query:    url.Values{"grant_type": {"password"}},
		body:     credentials{Email: email, Password: password},
		public:   true,
	})
	if err != nil {
		return "", fail(ctx, op, err)
	}

	raw, _ := envelope.First(body, accessTokenPaths...)
	token, ok := record.ToString(raw)
	if !ok {
		return "", fail(ctx, op, &APIError{
			Endpoint: endpointLogin,
			Status:   http.StatusBadGateway,
			Message:  "login response did not contain an access token",
		})
	}

	if err := c.store.Set(ctx, token); err != nil {
		return "", fail(ctx, op, err)
	}

	c.log.Info(ctx, "operator logged in", "email", email, "token", hasher.Fingerprint(token))
	return token, nil
}

// Logout revokes the token remotely when it can and always clears it
// locally. The returned error reports a local failure; a failed remote
// revoke is only logged.
func (c *Client) Logout(ctx context.Context) error {
	const op = "Client.Logout"
	ctx = wrap.WithAction(ctx, types.ActionLogout)

	tok, err := c.store.Get(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to read session before logout", "error", err)
	}

	if tok != "" {
		if _, err := c.do(ctx, request{method: http.MethodPost, endpoint: endpointLogout}); err != nil {
			logCtx := wrap.WithAction(ctx, types.ActionLogoutRemoteFailed)
			c.log.Warn(logCtx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return fail(ctx, op, err)
	}

	c.log.Info(ctx, "operator logged out", "token", hasher.Fingerprint(tok))
	return nil
}
