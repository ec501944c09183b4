package gateway

import (
	"context"
	"net/http"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

type emailRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTP asks the API to email a login OTP.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/send-otp", body: emailRequest{Email: email}})
}

// VerifyOTP checks a login OTP and returns the issued credential.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/verify-otp",
		body:   verifyOTPRequest{Email: email, OTP: otp},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, form domain.Registration) (*ports.RegisterResult, error) {
	var out ports.RegisterResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: form, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
