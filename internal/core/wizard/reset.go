package wizard

import "strings"

// ResetStep is a state of the password-reset flow.
type ResetStep int

const (
	ResetEmailEntry ResetStep = iota
	ResetOTPEntry
	ResetNewPassword
	ResetDone
)

func (s ResetStep) String() string {
	switch s {
	case ResetEmailEntry:
		return "email_entry"
	case ResetOTPEntry:
		return "otp_entry"
	case ResetNewPassword:
		return "new_password"
	case ResetDone:
		return "done"
	default:
		return "unknown"
	}
}

// Reset is the state of the email → OTP → new password flow.
type Reset struct {
	Step  ResetStep
	Email string
	OTP   OTP
	// Code is the OTP accepted locally in the OTP step. It is not verified
	// until the new password is submitted.
	Code     string
	Error    string
	Notice   string
	Cooldown int
	Busy     bool
}

func (s Reset) StepName() string { return s.Step.String() }
func (s Reset) Countdown() int   { return s.Cooldown }

// CanResend reports whether the resend action is enabled.
func (s Reset) CanResend() bool { return s.Step == ResetOTPEntry && s.Cooldown == 0 }

// ResetMachine computes password-reset transitions.
type ResetMachine struct{}

// Transition returns the next reset state for ev and the side effect to run.
func (ResetMachine) Transition(s Reset, ev Event) (Reset, Command) {
	switch e := ev.(type) {
	case Tick:
		s.Cooldown = tick(s.Cooldown)
		return s, nil

	case StartOver:
		if s.Step == ResetDone {
			return s, nil
		}
		return Reset{Step: ResetEmailEntry, Cooldown: s.Cooldown}, nil

	case SubmitEmail:
		if s.Step != ResetEmailEntry || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		s.Email = e.Email
		if strings.TrimSpace(e.Email) == "" {
			s.Error = "Email is required"
			return s, nil
		}
		s.Busy = true
		return s, SendResetOTP{Email: e.Email}

	case OTPSent:
		if !s.Busy {
			return s, nil
		}
		s.Busy = false
		s.Cooldown = ResendCooldown
		switch s.Step {
		case ResetEmailEntry:
			s.Step = ResetOTPEntry
			s.OTP = OTP{}
			s.Notice = "OTP sent to your email"
		case ResetOTPEntry:
			s.Notice = "OTP resent successfully!"
		}
		return s, nil

	case OTPSendFailed:
		if !s.Busy {
			return s, nil
		}
		s.Busy = false
		s.Error = orDefault(e.Message, "Failed to send OTP")
		return s, nil

	case EnterDigit:
		if s.Step == ResetOTPEntry {
			s.OTP = s.OTP.Enter(e.Index, e.Value)
		}
		return s, nil

	case Backspace:
		if s.Step == ResetOTPEntry {
			s.OTP = s.OTP.Backspace(e.Index)
		}
		return s, nil

	case FillOTP:
		if s.Step == ResetOTPEntry {
			s.OTP = OTP{}.Fill(e.Digits)
		}
		return s, nil

	case SubmitOTP:
		if s.Step != ResetOTPEntry {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		if !s.OTP.Complete() {
			s.Error = "Enter complete OTP"
			return s, nil
		}
		s.Code = s.OTP.Code()
		s.Step = ResetNewPassword
		s.Notice = "OTP accepted! Now enter your new password."
		return s, nil

	case SubmitPassword:
		if s.Step != ResetNewPassword || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		if len(e.Password) < minPasswordLen {
			s.Error = "Password must be at least 8 characters"
			return s, nil
		}
		s.Busy = true
		return s, ResetPassword{Email: s.Email, Code: s.Code, NewPassword: e.Password}

	case PasswordReset:
		if s.Step != ResetNewPassword {
			return s, nil
		}
		s.Busy = false
		s.Step = ResetDone
		s.Notice = "Password reset successfully!"
		return s, nil

	case ResetRejected:
		s.Busy = false
		s.Error = orDefault(e.Message, "Failed to reset password")
		return s, nil

	case Resend:
		if !s.CanResend() || s.Busy {
			return s, nil
		}
		s.Error, s.Notice = "", ""
		s.OTP = OTP{}
		s.Cooldown = ResendCooldown
		s.Busy = true
		return s, SendResetOTP{Email: s.Email}
	}
	return s, nil
}
