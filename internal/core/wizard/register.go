package wizard

import (
	"errors"
	"strings"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/validation"
)

// RegisterStep is a state of the sign-up form.
type RegisterStep int

const (
	RegisterEditing RegisterStep = iota
	RegisterSubmitting
	RegisterDone
)

func (s RegisterStep) String() string {
	switch s {
	case RegisterEditing:
		return "editing"
	case RegisterSubmitting:
		return "submitting"
	case RegisterDone:
		return "done"
	default:
		return "unknown"
	}
}

// Register is the state of the single-step sign-up form.
type Register struct {
	Step   RegisterStep
	Form   domain.Registration
	Errors validation.FieldErrors
	Error  string
	Notice string
	// Redirect is set to the login route once registration succeeds.
	Redirect string
}

func (s Register) StepName() string { return s.Step.String() }
func (s Register) Countdown() int   { return 0 }

// RegisterMachine computes sign-up transitions.
type RegisterMachine struct {
	v *validation.Validator
}

func NewRegisterMachine(v *validation.Validator) RegisterMachine {
	return RegisterMachine{v: v}
}

// Transition validates and submits the form. Field errors never produce a
// command.
func (m RegisterMachine) Transition(s Register, ev Event) (Register, Command) {
	switch e := ev.(type) {
	case SubmitRegistration:
		if s.Step == RegisterSubmitting {
			return s, nil
		}
		form := normalize(e.Form)
		s.Form = form
		s.Error, s.Notice, s.Errors = "", "", nil
		if err := m.v.Struct(form); err != nil {
			var fe validation.FieldErrors
			if errors.As(err, &fe) {
				s.Errors = fe
			} else {
				s.Error = err.Error()
			}
			s.Step = RegisterEditing
			return s, nil
		}
		s.Step = RegisterSubmitting
		return s, RegisterAccount{Form: form}

	case Registered:
		if s.Step != RegisterSubmitting {
			return s, nil
		}
		s.Step = RegisterDone
		s.Form = domain.Registration{Role: s.Form.Role}
		s.Notice = orDefault(e.Message, "Registration successful")
		s.Redirect = "/login"
		return s, nil

	case RegistrationRejected:
		s.Step = RegisterEditing
		s.Error = orDefault(e.Message, "Registration failed.")
		return s, nil
	}
	return s, nil
}

// normalize trims text fields, upper-cases the role and drops vehicle
// details for passengers.
func normalize(f domain.Registration) domain.Registration {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.VehicleModel = strings.TrimSpace(f.VehicleModel)
	f.LicensePlate = strings.TrimSpace(f.LicensePlate)
	f.Role = domain.Role(strings.ToUpper(strings.TrimSpace(string(f.Role))))
	if f.Role == "" {
		f.Role = domain.RoleDriver
	}
	if f.Role != domain.RoleDriver {
		f.VehicleModel, f.LicensePlate, f.Capacity = "", "", 0
	}
	return f
}
