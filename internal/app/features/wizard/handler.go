// internal/app/features/wizard/handler.go
package wizard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/sessions"
	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Directory lists what a user may choose at each step.
type Directory interface {
	DivisionsFor(ctx context.Context, u *auth.SessionUser) ([]selection.Option, error)
	HospitalsFor(ctx context.Context, divisionID string) ([]selection.Option, error)
}

// Handler drives the division then hospital selection.
type Handler struct {
	Dir      Directory
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	Render   uierrors.RenderFunc
}

func NewHandler(dir Directory, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Dir:      dir,
		Sessions: sm,
		ErrLog:   errLog,
		Log:      logger,
		Render:   templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type chooseData struct {
	viewdata.BaseVM
	Action  string
	Field   string
	Label   string
	Options []selection.Option
	Error   string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /select-division                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDivision(w http.ResponseWriter, r *http.Request) {
	h.division(w, r, false)
}

func (h *Handler) HandleDivision(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/select-division")
		return
	}
	h.division(w, r, true)
}

func (h *Handler) division(w http.ResponseWriter, r *http.Request, submitted bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list divisions")
	defer cancel()

	opts, err := h.Dir.DivisionsFor(ctx, u)
	if err != nil {
		h.Log.Warn("division lookup failed", zap.Error(err), zap.String("user_id", u.ID))
		h.degrade(w, r, sess, err)
		return
	}

	d := selection.ChooseDivision(opts, r.PostFormValue("division"), submitted)
	switch d.State {
	case selection.DegradedHome:
		h.Log.Info("user has no divisions", zap.String("user_id", u.ID))
		h.degrade(w, r, sess, d.Err)
	case selection.HospitalPending:
		selection.SetDivision(sess, d.Selected)
		h.redirect(w, r, sess, selection.HospitalPending)
	default:
		h.render(w, r, sess, chooseData{
			Action:  "/select-division",
			Field:   "division",
			Label:   "Division",
			Options: d.Options,
			Error:   selection.Message(d.Err),
		}, "Select division")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /select-hospital                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHospital(w http.ResponseWriter, r *http.Request) {
	h.hospital(w, r, false)
}

func (h *Handler) HandleHospital(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/select-hospital")
		return
	}
	h.hospital(w, r, true)
}

func (h *Handler) hospital(w http.ResponseWriter, r *http.Request, submitted bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sel := selection.Load(sess)
	if sel.DivisionID == "" {
		h.redirect(w, r, sess, selection.DivisionPending)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list hospitals")
	defer cancel()

	opts, err := h.Dir.HospitalsFor(ctx, sel.DivisionID)
	if err != nil {
		h.Log.Warn("hospital lookup failed", zap.Error(err), zap.String("division_id", sel.DivisionID))
		h.degrade(w, r, sess, err)
		return
	}

	d := selection.ChooseHospital(opts, r.PostFormValue("hospital"), submitted)
	switch d.State {
	case selection.DegradedHome:
		h.Log.Info("division has no hospitals", zap.String("division_id", sel.DivisionID))
		h.degrade(w, r, sess, d.Err)
	case selection.BoardReady:
		selection.SetHospital(sess, d.Selected)
		h.redirect(w, r, sess, selection.BoardReady)
	default:
		h.render(w, r, sess, chooseData{
			Action:  "/select-hospital",
			Field:   "hospital",
			Label:   "Hospital",
			Options: d.Options,
			Error:   selection.Message(d.Err),
		}, "Select hospital")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// session loads the session and restarts the wizard from a degraded home.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, err := h.Sessions.GetSession(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "session load failed", err, "Your session could not be loaded.", "/login")
		return nil, false
	}
	if selection.Load(sess).Blocked {
		selection.Clear(sess)
	}
	return sess, true
}

// degrade parks the session on the home page without a board.
func (h *Handler) degrade(w http.ResponseWriter, r *http.Request, sess *sessions.Session, err error) {
	selection.Block(sess)
	flash.Add(sess, flash.Error, selection.Message(err))
	h.redirect(w, r, sess, selection.DegradedHome)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, sess *sessions.Session, state selection.State) {
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("session save failed", zap.Error(err))
	}
	http.Redirect(w, r, selection.Path(state, ""), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *sessions.Session, data chooseData, title string) {
	data.BaseVM = viewdata.NewBaseVM(r, title, "/")
	data.Apply(sess)
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("session save failed", zap.Error(err))
	}
	h.Render(w, r, "wizard_choose", data)
}
