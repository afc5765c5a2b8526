package main

type Menu int

const (
	MenuNone Menu = iota
	MenuClient
	MenuBusiness
)

func (m Menu) String() string {
	switch m {
	case MenuClient:
		return "client menu"
	case MenuBusiness:
		return "business menu"
	default:
		return "none"
	}
}

const (
	MsgInvalidLogin      = "Invalid Username\\Password"
	MsgRegistered        = "Registration complete. You can now log in."
	MsgRegisterFailed    = "Registration failed. Please check your details and try again."
	MsgLoginInProgress   = "A login is already in progress."
	MsgTooManyAttempts   = "Too many login attempts. Please wait a moment."
	MsgNotLoggedIn       = "You are not logged in."
	MsgLoggedOut         = "You have been logged out."
	MsgUnexpectedFailure = "Something went wrong. Please try again."
)

// Screen is the UI collaborator a flow drives. Flows never call it concurrently,
// and implementations must not call back into the flow.
type Screen interface {
	SetSubmitEnabled(enabled bool)
	ClearFields()
	ShowMessage(message string)
	Navigate(menu Menu)
}
