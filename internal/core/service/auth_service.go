package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/validation"
	"github.com/smartride/smartride-web/internal/core/wizard"
)

// Flow names, used in logs and metrics.
const (
	FlowLogin    = "login"
	FlowReset    = "reset"
	FlowRegister = "register"
)

const saveSessionFailed = "Could not save your session. Please try again."

// LoginFlow, ResetFlow and RegisterFlow are mounted auth screens.
type (
	LoginFlow    = Runner[wizard.Login]
	ResetFlow    = Runner[wizard.Reset]
	RegisterFlow = Runner[wizard.Register]
)

// AuthOptions tunes the auth flows.
type AuthOptions struct {
	// ResetSendsOTP transmits the OTP collected in the reset flow with the
	// new password. Off by default: the reset call carries email and new
	// password only.
	ResetSendsOTP bool
	// TickInterval is the length of one cooldown second. Defaults to 1s.
	TickInterval time.Duration
}

// AuthService builds the login, password reset and registration flows and
// executes their side effects against the API and the session.
type AuthService struct {
	auth     ports.AuthAPI
	users    ports.UserAPI
	sessions ports.Sessions
	v        *validation.Validator
	opts     AuthOptions
	log      zerolog.Logger
}

func NewAuthService(
	auth ports.AuthAPI,
	users ports.UserAPI,
	sessions ports.Sessions,
	v *validation.Validator,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		auth:     auth,
		users:    users,
		sessions: sessions,
		v:        v,
		opts:     opts,
		log:      log,
	}
}

// NewLogin mounts a login flow at the email step.
func (s *AuthService) NewLogin() *LoginFlow {
	m := wizard.NewLoginMachine(s.v)
	return NewRunner(FlowLogin, wizard.Login{}, m.Transition, s.execLogin, s.opts.TickInterval, s.log)
}

// NewReset mounts a password reset flow at the email step.
func (s *AuthService) NewReset() *ResetFlow {
	var m wizard.ResetMachine
	return NewRunner(FlowReset, wizard.Reset{}, m.Transition, s.execReset, s.opts.TickInterval, s.log)
}

// NewRegister mounts an empty sign-up form with the driver role selected.
func (s *AuthService) NewRegister() *RegisterFlow {
	m := wizard.NewRegisterMachine(s.v)
	initial := wizard.Register{}
	initial.Form.Role = domain.RoleDriver
	return NewRunner(FlowRegister, initial, m.Transition, s.execRegister, s.opts.TickInterval, s.log)
}

func (s *AuthService) execLogin(ctx context.Context, cmd wizard.Command) wizard.Event {
	switch c := cmd.(type) {
	case wizard.SendLoginOTP:
		if err := s.auth.SendOTP(ctx, c.Email); err != nil {
			s.log.Warn().Err(err).Str("email", c.Email).Msg("send otp failed")
			return wizard.OTPSendFailed{Message: apiMessage(err, "")}
		}
		return wizard.OTPSent{}

	case wizard.VerifyOTP:
		res, err := s.auth.VerifyOTP(ctx, c.Email, c.Code)
		if err != nil {
			s.log.Warn().Err(err).Str("email", c.Email).Msg("verify otp failed")
			return wizard.OTPRejected{Message: apiMessage(err, "")}
		}
		return wizard.OTPVerified{Token: res.Token, User: res.User}

	case wizard.PasswordLogin:
		res, err := s.auth.Login(ctx, c.Email, c.Password)
		if err != nil {
			s.log.Warn().Err(err).Str("email", c.Email).Msg("password login failed")
			return wizard.LoginRejected{Message: apiMessage(err, "")}
		}
		return wizard.LoggedIn{Token: res.Token, User: res.User}

	case wizard.PersistSession:
		if err := s.sessions.Save(ctx, c.Token, c.User); err != nil {
			s.log.Error().Err(err).Msg("persist session failed")
			return wizard.SessionSaveFailed{Message: saveSessionFailed}
		}
		return nil
	}
	s.log.Error().Msgf("login flow: unexpected command %T", cmd)
	return nil
}

func (s *AuthService) execReset(ctx context.Context, cmd wizard.Command) wizard.Event {
	switch c := cmd.(type) {
	case wizard.SendResetOTP:
		if err := s.users.ForgotPassword(ctx, c.Email); err != nil {
			s.log.Warn().Err(err).Str("email", c.Email).Msg("forgot password failed")
			return wizard.OTPSendFailed{Message: apiMessage(err, "")}
		}
		return wizard.OTPSent{}

	case wizard.ResetPassword:
		code := ""
		if s.opts.ResetSendsOTP {
			code = c.Code
		}
		if err := s.users.ResetPassword(ctx, c.Email, c.NewPassword, code); err != nil {
			s.log.Warn().Err(err).Str("email", c.Email).Msg("reset password failed")
			return wizard.ResetRejected{Message: apiMessage(err, "")}
		}
		s.log.Info().Str("email", c.Email).Msg("password reset")
		return wizard.PasswordReset{}
	}
	s.log.Error().Msgf("reset flow: unexpected command %T", cmd)
	return nil
}

func (s *AuthService) execRegister(ctx context.Context, cmd wizard.Command) wizard.Event {
	c, ok := cmd.(wizard.RegisterAccount)
	if !ok {
		s.log.Error().Msgf("register flow: unexpected command %T", cmd)
		return nil
	}
	res, err := s.auth.Register(ctx, c.Form)
	if err != nil {
		s.log.Warn().Err(err).Str("email", c.Form.Email).Msg("registration failed")
		return wizard.RegistrationRejected{Message: apiMessage(err, "")}
	}
	s.log.Info().Str("email", c.Form.Email).Str("role", string(c.Form.Role)).Msg("account registered")
	return wizard.Registered{Message: res.Message}
}
