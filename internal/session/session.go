// Package session models the process-wide authentication state observed from
// the identity provider, and the pure render/redirect decisions the route
// guards make over it.
package session

// Identity is the signed-in user as exposed by the identity provider.
type Identity struct {
	ID            string
	DisplayName   string
	Email         string
	EmailVerified bool
}

// State is the current authentication state. Loading is true from process
// start until the first auth-state event; after that the state only moves
// between populated and empty.
type State struct {
	Identity *Identity
	Loading  bool
}

// Initial is the state before the identity provider has reported anything.
func Initial() State {
	return State{Loading: true}
}

// GuardDecision is the outcome of evaluating a route guard against a State.
type GuardDecision int

const (
	// DecideLoading renders a loading placeholder; the auth state is not
	// known yet.
	DecideLoading GuardDecision = iota
	// DecideRender renders the guarded content.
	DecideRender
	// DecideRedirect sends the visitor to the guard's redirect target.
	DecideRedirect
)

// DecideAuthenticated gates content that requires a signed-in user.
func DecideAuthenticated(s State) GuardDecision {
	if s.Loading {
		return DecideLoading
	}
	if s.Identity == nil {
		return DecideRedirect
	}
	return DecideRender
}

// DecideGuest gates sign-in/registration content, pushing signed-in users
// away from it.
func DecideGuest(s State) GuardDecision {
	if s.Loading {
		return DecideLoading
	}
	if s.Identity != nil {
		return DecideRedirect
	}
	return DecideRender
}
