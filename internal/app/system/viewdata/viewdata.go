// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
)

// DefaultSiteName is shown until Init is called.
const DefaultSiteName = "Anesthesia Whiteboard"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/"),
//	}
//	data.Apply(sess)
type BaseVM struct {
	SiteName string

	// User context (from session middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string

	// Wizard context
	DivisionName string
	HospitalName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string

	Flashes []flash.Message
}

var siteName = DefaultSiteName

// Init sets the site name shown in page headers.
// Call this once at startup from bootstrap.
func Init(name string) {
	if name != "" {
		siteName = name
	}
}

// NewBaseVM creates a BaseVM populated from the request.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    siteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.IsAdmin = u.IsAdmin()
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}

// Apply copies the wizard selection from sess and drains its flashes.
// The caller saves the session before writing the response.
func (vm *BaseVM) Apply(sess *sessions.Session) {
	if sess == nil {
		return
	}
	sel := selection.Load(sess)
	vm.DivisionName = sel.DivisionName
	vm.HospitalName = sel.HospitalName
	vm.Flashes = flash.Pop(sess)
}
