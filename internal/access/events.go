package access

// Event is an input to Reduce. The set is closed: only this package
// declares events.
type Event interface {
	accessEvent()
}

type (
	SubmitRegistration struct{}
	SubmitStatusCheck  struct{}
	SubmitAdminLogin   struct{}

	RegistrationSucceeded struct{}
	RegistrationFailed    struct{ Message string }

	// StatusChecked is a successful status lookup for a known subscriber.
	StatusChecked struct {
		Status     string
		ExpiryDate string
	}
	// StatusCheckFailed covers unknown emails and unreachable directories alike.
	StatusCheckFailed struct{}

	AdminVerified struct{}
	AdminRejected struct{}

	// AdminOverride is an authenticated admin opening the dashboard directly.
	AdminOverride struct{}

	Logout struct{}

	// Reset clears the form message when the visitor switches tabs.
	Reset struct{}
)

func (SubmitRegistration) accessEvent()    {}
func (SubmitStatusCheck) accessEvent()     {}
func (SubmitAdminLogin) accessEvent()      {}
func (RegistrationSucceeded) accessEvent() {}
func (RegistrationFailed) accessEvent()    {}
func (StatusChecked) accessEvent()         {}
func (StatusCheckFailed) accessEvent()     {}
func (AdminVerified) accessEvent()         {}
func (AdminRejected) accessEvent()         {}
func (AdminOverride) accessEvent()         {}
func (Logout) accessEvent()                {}
func (Reset) accessEvent()                 {}
