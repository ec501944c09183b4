// Package wizard holds the authentication flows as explicit state machines.
//
// Each flow has a state type and a Transition method that is pure: it maps a
// state and an event to the next state plus, optionally, a Command describing
// a side effect (network call, session write). Running the command and
// feeding its outcome back as an event is the caller's job.
package wizard

import "github.com/smartride/smartride-web/internal/core/domain"

// ResendCooldown is the number of seconds before another OTP may be sent.
const ResendCooldown = 60

// Event is an input to a flow.
type Event interface{ event() }

type (
	// SubmitEmail is the user submitting the email step.
	SubmitEmail struct{ Email string }
	// OTPSent reports the backend accepted an OTP send request.
	OTPSent struct{}
	// OTPSendFailed reports a failed OTP send request.
	OTPSendFailed struct{ Message string }
	// EnterDigit is a keystroke in OTP cell Index.
	EnterDigit struct {
		Index int
		Value string
	}
	// Backspace is a backspace in OTP cell Index.
	Backspace struct{ Index int }
	// FillOTP enters all cells at once, as a submitted form does.
	FillOTP struct{ Digits []string }
	// SubmitOTP is the user submitting the OTP step.
	SubmitOTP struct{}
	// OTPVerified carries the backend's answer to a successful verification.
	OTPVerified struct {
		Token string
		User  domain.UserRecord
	}
	// OTPRejected reports a failed verification.
	OTPRejected struct{ Message string }
	// SubmitPassword is the user submitting a password field.
	SubmitPassword struct{ Password string }
	// LoggedIn carries the result of a successful password login.
	LoggedIn struct {
		Token string
		User  domain.UserRecord
	}
	// LoginRejected reports a failed password login.
	LoginRejected struct{ Message string }
	// SessionSaveFailed reports that an accepted login could not be stored.
	SessionSaveFailed struct{ Message string }
	// PasswordReset reports the backend accepted the new password.
	PasswordReset struct{}
	// ResetRejected reports a failed password reset.
	ResetRejected struct{ Message string }
	// SubmitRegistration is the user submitting the sign-up form.
	SubmitRegistration struct{ Form domain.Registration }
	// Registered reports a successful sign-up.
	Registered struct{ Message string }
	// RegistrationRejected reports a failed sign-up.
	RegistrationRejected struct{ Message string }
	// Resend asks for another OTP.
	Resend struct{}
	// StartOver returns to the email step.
	StartOver struct{}
	// Tick is one second of the resend cooldown elapsing.
	Tick struct{}
)

func (SubmitEmail) event()          {}
func (OTPSent) event()              {}
func (OTPSendFailed) event()        {}
func (EnterDigit) event()           {}
func (Backspace) event()            {}
func (FillOTP) event()              {}
func (SubmitOTP) event()            {}
func (OTPVerified) event()          {}
func (OTPRejected) event()          {}
func (SubmitPassword) event()       {}
func (LoggedIn) event()             {}
func (LoginRejected) event()        {}
func (SessionSaveFailed) event()    {}
func (PasswordReset) event()        {}
func (ResetRejected) event()        {}
func (SubmitRegistration) event()   {}
func (Registered) event()           {}
func (RegistrationRejected) event() {}
func (Resend) event()               {}
func (StartOver) event()            {}
func (Tick) event()                 {}

// Command is a side effect requested by a transition.
type Command interface{ command() }

type (
	// SendLoginOTP asks the backend to email a login OTP.
	SendLoginOTP struct{ Email string }
	// VerifyOTP checks a login OTP.
	VerifyOTP struct{ Email, Code string }
	// PasswordLogin logs in with email and password.
	PasswordLogin struct{ Email, Password string }
	// PersistSession stores the credential, user and role.
	PersistSession struct {
		Token string
		User  domain.UserRecord
	}
	// SendResetOTP asks the backend to email a password-reset OTP.
	SendResetOTP struct{ Email string }
	// ResetPassword submits the new password.
	ResetPassword struct{ Email, Code, NewPassword string }
	// RegisterAccount submits the sign-up form.
	RegisterAccount struct{ Form domain.Registration }
)

func (SendLoginOTP) command()    {}
func (VerifyOTP) command()       {}
func (PasswordLogin) command()   {}
func (PersistSession) command()  {}
func (SendResetOTP) command()    {}
func (ResetPassword) command()   {}
func (RegisterAccount) command() {}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func tick(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}
