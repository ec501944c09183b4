package handler

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/smartride/smartride-web/internal/api/view"
	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/service"
	"github.com/smartride/smartride-web/internal/core/wizard"
)

// AuthFlows builds the auth screens.
type AuthFlows interface {
	NewLogin() *service.LoginFlow
	NewReset() *service.ResetFlow
	NewRegister() *service.RegisterFlow
}

// AuthHandler serves the login, password reset and sign-up pages. A GET of
// the page mounts a fresh flow for the browser profile, a GET of its OTP
// step re-renders the mounted flow, and each POST feeds one user action to
// the mounted flow.
type AuthHandler struct {
	flows   AuthFlows
	screens *service.Registry
}

func NewAuthHandler(flows AuthFlows, screens *service.Registry) *AuthHandler {
	return &AuthHandler{flows: flows, screens: screens}
}

// Pages that show the OTP step of a mounted flow.
const (
	loginOTPPath = "/login/otp"
	resetOTPPath = "/forgot-password/otp"
)

// ── Login ────────────────────────────────────────────────────────────────────

func (h *AuthHandler) LoginPage(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow := h.flows.NewLogin()
	h.screens.Mount(scope, flow)
	return h.renderLogin(c, scope, flow.State(), c.QueryParam("notice"))
}

// LoginOTPPage re-renders the mounted login flow, so the OTP step can show
// the current cooldown without losing the entered email.
func (h *AuthHandler) LoginOTPPage(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow := service.CurrentOrMount(h.screens, scope, h.flows.NewLogin)
	return h.renderLogin(c, scope, flow.State(), "")
}

func (h *AuthHandler) LoginEmail(c echo.Context) error {
	return h.login(c, wizard.SubmitEmail{Email: strings.TrimSpace(c.FormValue("email"))})
}

func (h *AuthHandler) LoginOTP(c echo.Context) error {
	digits, err := otpDigits(c)
	if err != nil {
		return err
	}
	return h.login(c, wizard.FillOTP{Digits: digits}, wizard.SubmitOTP{})
}

func (h *AuthHandler) LoginPassword(c echo.Context) error {
	return h.login(c, wizard.SubmitPassword{Password: c.FormValue("password")})
}

func (h *AuthHandler) LoginResend(c echo.Context) error {
	return h.login(c, wizard.Resend{})
}

func (h *AuthHandler) LoginStartOver(c echo.Context) error {
	return h.login(c, wizard.StartOver{})
}

func (h *AuthHandler) login(c echo.Context, events ...wizard.Event) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow, ok := service.Current[*service.LoginFlow](h.screens, scope)
	if !ok {
		return domain.ErrNotMounted
	}
	var st wizard.Login
	for _, ev := range events {
		st = flow.Dispatch(c.Request().Context(), ev)
	}
	return h.renderLogin(c, scope, st, "")
}

func (h *AuthHandler) renderLogin(c echo.Context, scope string, st wizard.Login, flash string) error {
	if st.Step == wizard.LoginAuthenticated {
		h.screens.Unmount(scope)
		return c.Redirect(http.StatusSeeOther, st.Redirect)
	}
	page := view.Page{Title: "Log in", Body: view.LoginBody{State: st, Flash: flash}}
	if st.Step == wizard.LoginOTPPending {
		page.Refresh = view.CooldownRefresh(loginOTPPath, st.Cooldown)
	}
	return renderPage(c, "login", page)
}

// ── Password reset ───────────────────────────────────────────────────────────

func (h *AuthHandler) ResetPage(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow := h.flows.NewReset()
	h.screens.Mount(scope, flow)
	return renderReset(c, flow.State())
}

// ResetOTPPage re-renders the mounted reset flow.
func (h *AuthHandler) ResetOTPPage(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow := service.CurrentOrMount(h.screens, scope, h.flows.NewReset)
	return renderReset(c, flow.State())
}

func (h *AuthHandler) ResetEmail(c echo.Context) error {
	return h.reset(c, wizard.SubmitEmail{Email: strings.TrimSpace(c.FormValue("email"))})
}

func (h *AuthHandler) ResetOTP(c echo.Context) error {
	digits, err := otpDigits(c)
	if err != nil {
		return err
	}
	return h.reset(c, wizard.FillOTP{Digits: digits}, wizard.SubmitOTP{})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	return h.reset(c, wizard.SubmitPassword{Password: c.FormValue("password")})
}

func (h *AuthHandler) ResetResend(c echo.Context) error {
	return h.reset(c, wizard.Resend{})
}

func (h *AuthHandler) ResetStartOver(c echo.Context) error {
	return h.reset(c, wizard.StartOver{})
}

func (h *AuthHandler) reset(c echo.Context, events ...wizard.Event) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow, ok := service.Current[*service.ResetFlow](h.screens, scope)
	if !ok {
		return domain.ErrNotMounted
	}
	var st wizard.Reset
	for _, ev := range events {
		st = flow.Dispatch(c.Request().Context(), ev)
	}
	return renderReset(c, st)
}

func renderReset(c echo.Context, st wizard.Reset) error {
	page := view.Page{Title: "Reset password", Body: st}
	if st.Step == wizard.ResetOTPEntry {
		page.Refresh = view.CooldownRefresh(resetOTPPath, st.Cooldown)
	}
	return renderPage(c, "forgot", page)
}

// ── Registration ─────────────────────────────────────────────────────────────

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	flow := h.flows.NewRegister()
	h.screens.Mount(scope, flow)
	return render(c, "register", "Sign up", flow.State())
}

func (h *AuthHandler) Register(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	var form domain.Registration
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	flow, ok := service.Current[*service.RegisterFlow](h.screens, scope)
	if !ok {
		return domain.ErrNotMounted
	}
	st := flow.Dispatch(c.Request().Context(), wizard.SubmitRegistration{Form: form})
	if st.Redirect != "" {
		h.screens.Unmount(scope)
		return c.Redirect(http.StatusSeeOther, st.Redirect+"?notice="+url.QueryEscape(st.Notice))
	}
	return render(c, "register", "Sign up", st)
}

// otpDigits reads the six OTP cells. A single pasted value is split into
// characters.
func otpDigits(c echo.Context) ([]string, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	vals := params["otp"]
	if len(vals) == 1 && utf8.RuneCountInString(vals[0]) > 1 {
		split := make([]string, 0, wizard.OTPLength)
		for _, r := range strings.TrimSpace(vals[0]) {
			split = append(split, string(r))
		}
		return split, nil
	}
	return vals, nil
}
