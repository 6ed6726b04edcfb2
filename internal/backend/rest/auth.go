package rest

import (
	"context"
	"net/http"

	"phototask/internal/service"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	body, err := c.doJSON(ctx, service.OpLogin, "", http.MethodPost, "/auth/login", creds)
	if err != nil {
		return service.AuthResult{}, err
	}

	var res service.AuthResult
	if err := decode(service.OpLogin, payload(body), &res); err != nil {
		return service.AuthResult{}, err
	}
	if res.Token == "" {
		return service.AuthResult{}, service.UnexpectedResponse(service.OpLogin, "backend did not return a session token")
	}
	return res, nil
}
