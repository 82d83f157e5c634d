package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/login", nil)
	vm := viewdata.NewBaseVM(r, "Sign in", "/")

	if vm.IsLoggedIn || vm.UserName != "" {
		t.Errorf("anonymous vm = %+v", vm)
	}
	if vm.Title != "Sign in" || vm.CurrentPath != "/login" {
		t.Errorf("page fields = %+v", vm)
	}
	if vm.SiteName == "" {
		t.Error("SiteName should default")
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "u1", Name: "Ada Admin", Role: "admin"})

	vm := viewdata.NewBaseVM(r, "Board", "/")
	if !vm.IsLoggedIn || !vm.IsAdmin || vm.UserName != "Ada Admin" {
		t.Errorf("signed-in vm = %+v", vm)
	}
}

func TestApply(t *testing.T) {
	sess := sessions.NewSession(sessions.NewCookieStore([]byte("k")), "s")
	selection.SetDivision(sess, selection.Option{ID: "1", Name: "Richmond Metro"})
	selection.SetHospital(sess, selection.Option{ID: "2", Name: "Chippenham"})
	flash.Add(sess, flash.Warning, "Staff directory unavailable.")

	vm := viewdata.NewBaseVM(httptest.NewRequest("GET", "/", nil), "Board", "/")
	vm.Apply(sess)

	if vm.DivisionName != "Richmond Metro" || vm.HospitalName != "Chippenham" {
		t.Errorf("selection names = %q / %q", vm.DivisionName, vm.HospitalName)
	}
	if len(vm.Flashes) != 1 || vm.Flashes[0].Kind != flash.Warning {
		t.Errorf("Flashes = %+v", vm.Flashes)
	}

	vm.Apply(nil)
}
