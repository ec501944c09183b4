package gateway

import (
	"context"
	"net/http"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

var _ ports.UserAPI = (*Client)(nil)

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	OTP         string `json:"otp,omitempty"`
}

// ForgotPassword asks the API to email a password-reset OTP.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/user/forgot-password", body: emailRequest{Email: email}})
}

// ResetPassword sets a new password. otp is omitted from the payload when
// empty.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword, otp string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/user/reset-password",
		body:   resetPasswordRequest{Email: email, NewPassword: newPassword, OTP: otp},
	})
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*domain.UserRecord, error) {
	var out domain.UserRecord
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/profile", out: &out, timeout: c.driverTimeout})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
