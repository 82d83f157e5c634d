package selection_test

import (
	"errors"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
)

var (
	richmond = selection.Option{ID: "1", Name: "Richmond Metro"}
	vcu      = selection.Option{ID: "2", Name: "VCU Health"}
)

func TestAfterLogin(t *testing.T) {
	if got := selection.AfterLogin(selection.Subject{Authenticated: true, Admin: true}); got != selection.AdminSurface {
		t.Errorf("admin = %v, want AdminSurface", got)
	}
	if got := selection.AfterLogin(selection.Subject{Authenticated: true}); got != selection.DivisionPending {
		t.Errorf("staff = %v, want DivisionPending", got)
	}
	if got := selection.AfterLogin(selection.Subject{}); got != selection.Unauthenticated {
		t.Errorf("anonymous = %v, want Unauthenticated", got)
	}
}

func TestLocate(t *testing.T) {
	signedIn := selection.Subject{Authenticated: true}
	tests := []struct {
		name string
		subj selection.Subject
		sel  selection.Selection
		want selection.State
	}{
		{"anonymous", selection.Subject{}, selection.Selection{HospitalID: "1"}, selection.Unauthenticated},
		{"nothing chosen", signedIn, selection.Selection{}, selection.DivisionPending},
		{"hospital without division goes back", signedIn, selection.Selection{HospitalID: "1"}, selection.DivisionPending},
		{"division only", signedIn, selection.Selection{DivisionID: "1"}, selection.HospitalPending},
		{"both", signedIn, selection.Selection{DivisionID: "1", HospitalID: "1"}, selection.BoardReady},
		{"blocked", signedIn, selection.Selection{Blocked: true}, selection.DegradedHome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selection.Locate(tt.subj, tt.sel); got != tt.want {
				t.Errorf("Locate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseDivision_SingleAutoSelects(t *testing.T) {
	d := selection.ChooseDivision([]selection.Option{richmond}, "", false)
	if d.State != selection.HospitalPending || d.Selected != richmond || d.Err != nil {
		t.Errorf("decision = %+v", d)
	}
}

func TestChooseDivision_NoneDegrades(t *testing.T) {
	d := selection.ChooseDivision(nil, "", false)
	if d.State != selection.DegradedHome || !errors.Is(d.Err, selection.ErrNoDivisions) {
		t.Errorf("decision = %+v", d)
	}
}

func TestChooseDivision_Many(t *testing.T) {
	opts := []selection.Option{richmond, vcu}

	d := selection.ChooseDivision(opts, "", false)
	if d.State != selection.DivisionPending || len(d.Options) != 2 || d.Err != nil {
		t.Errorf("unsubmitted = %+v", d)
	}

	d = selection.ChooseDivision(opts, "2", true)
	if d.State != selection.HospitalPending || d.Selected != vcu {
		t.Errorf("in-set = %+v", d)
	}

	d = selection.ChooseDivision(opts, "99", true)
	if d.State != selection.DivisionPending || !errors.Is(d.Err, selection.ErrNotInSet) || len(d.Options) != 2 {
		t.Errorf("out-of-set = %+v", d)
	}
}

func TestChooseHospital(t *testing.T) {
	chip := selection.Option{ID: "1", Name: "Chippenham"}
	jw := selection.Option{ID: "2", Name: "Johnston-Willis"}

	if d := selection.ChooseHospital(nil, "", false); d.State != selection.DegradedHome || !errors.Is(d.Err, selection.ErrNoHospitals) {
		t.Errorf("none = %+v", d)
	}
	if d := selection.ChooseHospital([]selection.Option{chip}, "", false); d.State != selection.BoardReady || d.Selected != chip {
		t.Errorf("single = %+v", d)
	}
	if d := selection.ChooseHospital([]selection.Option{chip, jw}, "2", true); d.State != selection.BoardReady || d.Selected != jw {
		t.Errorf("in-set = %+v", d)
	}
	if d := selection.ChooseHospital([]selection.Option{chip, jw}, "3", true); d.State != selection.HospitalPending || d.Err == nil {
		t.Errorf("out-of-set = %+v", d)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sess := sessions.NewSession(sessions.NewCookieStore([]byte("k")), "s")

	if got := selection.Load(sess); got != (selection.Selection{}) {
		t.Fatalf("fresh session = %+v", got)
	}

	selection.SetDivision(sess, richmond)
	selection.SetHospital(sess, selection.Option{ID: "1", Name: "Chippenham"})
	got := selection.Load(sess)
	if got.DivisionID != "1" || got.HospitalName != "Chippenham" || got.Blocked {
		t.Errorf("after set = %+v", got)
	}

	// Changing division forgets the hospital.
	selection.SetDivision(sess, vcu)
	if got := selection.Load(sess); got.HospitalID != "" || got.DivisionID != "2" {
		t.Errorf("after division change = %+v", got)
	}

	selection.Block(sess)
	if got := selection.Load(sess); !got.Blocked || got.DivisionID != "" {
		t.Errorf("after block = %+v", got)
	}

	selection.Clear(sess)
	if got := selection.Load(sess); got != (selection.Selection{}) {
		t.Errorf("after clear = %+v", got)
	}
}

func TestMessage(t *testing.T) {
	if selection.Message(nil) != "" {
		t.Error("nil error should have no message")
	}
	for _, err := range []error{selection.ErrNoDivisions, selection.ErrNoHospitals, selection.ErrNotInSet, errors.New("x")} {
		if selection.Message(err) == "" {
			t.Errorf("no message for %v", err)
		}
	}
}

func TestPath(t *testing.T) {
	cases := map[selection.State]string{
		selection.Unauthenticated: "/login",
		selection.DivisionPending: "/select-division",
		selection.HospitalPending: "/select-hospital",
		selection.BoardReady:      "/",
		selection.DegradedHome:    "/",
		selection.AdminSurface:    "/admin",
	}
	for state, want := range cases {
		if got := selection.Path(state, "/admin"); got != want {
			t.Errorf("Path(%s) = %q, want %q", state, got, want)
		}
	}
}
