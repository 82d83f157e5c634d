// Package selection is the division then hospital wizard that gates board
// access. The wizard is linear and auto-advances when a step offers exactly
// one choice. Its only state is the selection kept in the user's session.
package selection

import (
	"errors"

	"github.com/gorilla/sessions"
)

// State is a wizard position.
type State int

const (
	Unauthenticated State = iota
	DivisionPending
	HospitalPending
	BoardReady
	// AdminSurface is where administrators land after login instead of the wizard.
	AdminSurface
	// DegradedHome is the home page without a board, reached when a step has
	// nothing to choose from.
	DegradedHome
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case DivisionPending:
		return "division_pending"
	case HospitalPending:
		return "hospital_pending"
	case BoardReady:
		return "board_ready"
	case AdminSurface:
		return "admin_surface"
	case DegradedHome:
		return "degraded_home"
	default:
		return "unknown"
	}
}

var (
	ErrNoDivisions = errors.New("selection: no divisions assigned")
	ErrNoHospitals = errors.New("selection: no hospitals in division")
	ErrNotInSet    = errors.New("selection: choice not offered")
)

// Message is the user-facing text for a wizard error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoDivisions):
		return "You are not assigned to any division. Contact an administrator."
	case errors.Is(err, ErrNoHospitals):
		return "No hospitals are configured for the selected division."
	case errors.Is(err, ErrNotInSet):
		return "Please choose one of the listed options."
	case err != nil:
		return "Something went wrong. Please try again."
	default:
		return ""
	}
}

// Option is one selectable division or hospital.
type Option struct {
	ID   string
	Name string
}

// Selection is the wizard state held in the session.
type Selection struct {
	DivisionID   string
	DivisionName string
	HospitalID   string
	HospitalName string
	// Blocked is set when a step had no options; the home page then renders
	// without a board until the user restarts the wizard.
	Blocked bool
}

// Subject is who is asking.
type Subject struct {
	Authenticated bool
	Admin         bool
}

// AfterLogin is the state a fresh login lands in.
func AfterLogin(s Subject) State {
	switch {
	case !s.Authenticated:
		return Unauthenticated
	case s.Admin:
		return AdminSurface
	default:
		return DivisionPending
	}
}

// Locate returns where a request stands given the stored selection.
// Missing upstream choices move the user back to the earliest open step.
func Locate(s Subject, sel Selection) State {
	switch {
	case !s.Authenticated:
		return Unauthenticated
	case sel.Blocked:
		return DegradedHome
	case sel.DivisionID == "":
		return DivisionPending
	case sel.HospitalID == "":
		return HospitalPending
	default:
		return BoardReady
	}
}

// Decision is the outcome of one wizard step.
type Decision struct {
	State    State
	Selected Option
	// Options is set when the user still has to choose.
	Options []Option
	Err     error
}

// ChooseDivision resolves the division step. choice is only consulted when
// submitted is true and more than one division is available.
func ChooseDivision(opts []Option, choice string, submitted bool) Decision {
	return choose(opts, choice, submitted, DivisionPending, HospitalPending, ErrNoDivisions)
}

// ChooseHospital resolves the hospital step the same way.
func ChooseHospital(opts []Option, choice string, submitted bool) Decision {
	return choose(opts, choice, submitted, HospitalPending, BoardReady, ErrNoHospitals)
}

func choose(opts []Option, choice string, submitted bool, here, next State, empty error) Decision {
	switch len(opts) {
	case 0:
		return Decision{State: DegradedHome, Err: empty}
	case 1:
		return Decision{State: next, Selected: opts[0]}
	}
	if !submitted {
		return Decision{State: here, Options: opts}
	}
	for _, o := range opts {
		if o.ID == choice {
			return Decision{State: next, Selected: o}
		}
	}
	return Decision{State: here, Options: opts, Err: ErrNotInSet}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session storage                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	divisionIDKey   = "selected_division_id"
	divisionNameKey = "selected_division_name"
	hospitalIDKey   = "selected_hospital_id"
	hospitalNameKey = "selected_hospital_name"
	blockedKey      = "selection_blocked"
)

// Load reads the selection from sess.
func Load(sess *sessions.Session) Selection {
	blocked, _ := sess.Values[blockedKey].(bool)
	return Selection{
		DivisionID:   str(sess, divisionIDKey),
		DivisionName: str(sess, divisionNameKey),
		HospitalID:   str(sess, hospitalIDKey),
		HospitalName: str(sess, hospitalNameKey),
		Blocked:      blocked,
	}
}

// SetDivision stores d and forgets any hospital chosen under the previous division.
func SetDivision(sess *sessions.Session, d Option) {
	sess.Values[divisionIDKey] = d.ID
	sess.Values[divisionNameKey] = d.Name
	delete(sess.Values, hospitalIDKey)
	delete(sess.Values, hospitalNameKey)
	delete(sess.Values, blockedKey)
}

// SetHospital stores h.
func SetHospital(sess *sessions.Session, h Option) {
	sess.Values[hospitalIDKey] = h.ID
	sess.Values[hospitalNameKey] = h.Name
	delete(sess.Values, blockedKey)
}

// Block clears the selection and marks the session as parked on the degraded home page.
func Block(sess *sessions.Session) {
	Clear(sess)
	sess.Values[blockedKey] = true
}

// Clear removes every selection key.
func Clear(sess *sessions.Session) {
	for _, k := range []string{divisionIDKey, divisionNameKey, hospitalIDKey, hospitalNameKey, blockedKey} {
		delete(sess.Values, k)
	}
}

func str(sess *sessions.Session, key string) string {
	if v, ok := sess.Values[key].(string); ok {
		return v
	}
	return ""
}

// Path is the page that serves state. Administrators land on adminURL.
func Path(state State, adminURL string) string {
	switch state {
	case Unauthenticated:
		return "/login"
	case DivisionPending:
		return "/select-division"
	case HospitalPending:
		return "/select-hospital"
	case AdminSurface:
		return adminURL
	default:
		return "/"
	}
}
