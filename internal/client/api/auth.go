package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/attendance/internal/client/gateway"
	"github.com/dmitrijs2005/attendance/internal/client/models"
)

type Auth struct {
	c Caller
}

// Login exchanges username and password for a bearer credential. It is sent
// anonymously so a wrong password never ends an existing session.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}

	var tok models.TokenResponse
	if err := a.c.Call(ctx, http.MethodPost, "/api/auth/login", nil, &tok,
		gateway.Form(form), gateway.WithoutCredential()); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("login response has no access_token")
	}
	return tok.AccessToken, nil
}

// Me fetches the identity that belongs to credential.
func (a *Auth) Me(ctx context.Context, credential string) (*models.Identity, error) {
	var id models.Identity
	if err := a.c.Call(ctx, http.MethodGet, "/api/auth/me", nil, &id,
		gateway.WithCredential(credential)); err != nil {
		return nil, err
	}
	return &id, nil
}

func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	var id models.Identity
	if err := a.c.Call(ctx, http.MethodPost, "/api/auth/register", req, &id,
		gateway.WithoutCredential()); err != nil {
		return nil, err
	}
	return &id, nil
}

func (a *Auth) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := models.ForgotPasswordRequest{Email: email}
	if err := check(req); err != nil {
		return "", err
	}
	var msg models.Message
	if err := a.c.Call(ctx, http.MethodPost, "/api/auth/forgot-password", req, &msg,
		gateway.WithoutCredential()); err != nil {
		return "", err
	}
	return msg.Message, nil
}

func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	req := models.ResetPasswordRequest{NewPassword: newPassword}
	if err := check(req); err != nil {
		return "", err
	}
	if token == "" {
		return "", &ValidationError{Fields: map[string]string{"token": "token is a required field"}}
	}
	var msg models.Message
	if err := a.c.Call(ctx, http.MethodPost, "/api/auth/reset-password/"+url.PathEscape(token), req, &msg,
		gateway.WithoutCredential()); err != nil {
		return "", err
	}
	return msg.Message, nil
}
