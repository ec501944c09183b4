package wizard

import (
	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/validation"
)

const minPasswordLen = 8

// LoginStep is a state of the login flow.
type LoginStep int

const (
	LoginEmailEntry LoginStep = iota
	LoginOTPPending
	LoginPasswordEntry
	LoginAuthenticated
)

func (s LoginStep) String() string {
	switch s {
	case LoginEmailEntry:
		return "email_entry"
	case LoginOTPPending:
		return "otp_pending"
	case LoginPasswordEntry:
		return "password_entry"
	case LoginAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Login is the state of the email → OTP → password flow.
type Login struct {
	Step     LoginStep
	Email    string
	OTP      OTP
	Error    string
	Notice   string
	Cooldown int
	Busy     bool
	// Redirect is the dashboard route once Step is LoginAuthenticated.
	Redirect string
}

// StepName implements the runner's state contract.
func (s Login) StepName() string { return s.Step.String() }

// Countdown implements the runner's state contract.
func (s Login) Countdown() int { return s.Cooldown }

// CanResend reports whether the resend action is enabled.
func (s Login) CanResend() bool { return s.Step == LoginOTPPending && s.Cooldown == 0 }

// LoginMachine computes login transitions.
type LoginMachine struct {
	v *validation.Validator
}

func NewLoginMachine(v *validation.Validator) LoginMachine {
	return LoginMachine{v: v}
}

// Transition returns the next login state for ev and the side effect to run,
// if any. Events that make no sense in the current step are ignored.
func (m LoginMachine) Transition(s Login, ev Event) (Login, Command) {
	switch e := ev.(type) {
	case Tick:
		s.Cooldown = tick(s.Cooldown)
		return s, nil

	case StartOver:
		if s.Step == LoginAuthenticated {
			return s, nil
		}
		return Login{Step: LoginEmailEntry, Cooldown: s.Cooldown}, nil

	case SubmitEmail:
		if s.Step != LoginEmailEntry || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		s.Email = e.Email
		if msg := m.v.Email(e.Email); msg != "" {
			s.Error = msg
			return s, nil
		}
		s.Busy = true
		return s, SendLoginOTP{Email: e.Email}

	case OTPSent:
		// A send that finishes after StartOver belongs to the abandoned flow.
		if !s.Busy {
			return s, nil
		}
		s.Busy = false
		s.Cooldown = ResendCooldown
		switch s.Step {
		case LoginEmailEntry:
			s.Step = LoginOTPPending
			s.OTP = OTP{}
		case LoginOTPPending:
			s.Notice = "OTP resent successfully!"
		}
		return s, nil

	case OTPSendFailed:
		if !s.Busy {
			return s, nil
		}
		s.Busy = false
		if s.Step == LoginOTPPending {
			s.Error = orDefault(e.Message, "Failed to resend OTP")
			return s, nil
		}
		s.Error = orDefault(e.Message, "Failed to send OTP")
		return s, nil

	case EnterDigit:
		if s.Step == LoginOTPPending {
			s.OTP = s.OTP.Enter(e.Index, e.Value)
		}
		return s, nil

	case Backspace:
		if s.Step == LoginOTPPending {
			s.OTP = s.OTP.Backspace(e.Index)
		}
		return s, nil

	case FillOTP:
		if s.Step == LoginOTPPending {
			s.OTP = OTP{}.Fill(e.Digits)
		}
		return s, nil

	case SubmitOTP:
		if s.Step != LoginOTPPending || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		if !s.OTP.Complete() {
			s.Error = "Please enter complete OTP"
			return s, nil
		}
		s.Busy = true
		return s, VerifyOTP{Email: s.Email, Code: s.OTP.Code()}

	case OTPVerified:
		if s.Step != LoginOTPPending {
			return s, nil
		}
		s.Busy = false
		if e.User.HasTemporaryPassword() {
			s.Step = LoginAuthenticated
			s.Redirect = domain.DashboardPath(e.User.Role)
			s.Notice = "OTP verified! Redirecting to your dashboard..."
			return s, PersistSession{Token: e.Token, User: e.User}
		}
		s.Step = LoginPasswordEntry
		return s, nil

	case OTPRejected:
		s.Busy = false
		s.Error = orDefault(e.Message, "Failed to verify OTP")
		return s, nil

	case SubmitPassword:
		if s.Step != LoginPasswordEntry || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		switch {
		case e.Password == "":
			s.Error = "Password is required"
			return s, nil
		case len(e.Password) < minPasswordLen:
			s.Error = "Password must be at least 8 characters"
			return s, nil
		}
		s.Busy = true
		return s, PasswordLogin{Email: s.Email, Password: e.Password}

	case LoggedIn:
		if s.Step != LoginPasswordEntry {
			return s, nil
		}
		s.Busy = false
		s.Step = LoginAuthenticated
		s.Redirect = domain.DashboardPath(e.User.Role)
		return s, PersistSession{Token: e.Token, User: e.User}

	case LoginRejected:
		s.Busy = false
		s.Error = orDefault(e.Message, "Login failed")
		return s, nil

	case SessionSaveFailed:
		if s.Step != LoginAuthenticated {
			return s, nil
		}
		return Login{
			Step:     LoginEmailEntry,
			Email:    s.Email,
			Cooldown: s.Cooldown,
			Error:    orDefault(e.Message, "Login failed"),
		}, nil

	case Resend:
		if !s.CanResend() || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		s.OTP = OTP{}
		s.Cooldown = ResendCooldown
		s.Busy = true
		return s, SendLoginOTP{Email: s.Email}
	}
	return s, nil
}
