// internal/app/features/whiteboard/handler.go
package whiteboard

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/sessions"
	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"go.uber.org/zap"
)

// Handler serves the board and its add/edit forms.
type Handler struct {
	Board    *whiteboard.Service
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	Render   uierrors.RenderFunc
}

func NewHandler(board *whiteboard.Service, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Board:    board,
		Sessions: sm,
		ErrLog:   errLog,
		Log:      logger,
		Render:   templates.Render,
	}
}

// locate loads the session and reports where the request stands in the
// wizard. It redirects and returns ok=false for pending steps. A degraded
// session is returned with ok=true so the caller can render it.
func (h *Handler) locate(w http.ResponseWriter, r *http.Request) (*sessions.Session, selection.Selection, selection.State, bool) {
	sess, err := h.Sessions.GetSession(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "session load failed", err, "Your session could not be loaded.", "/login")
		return nil, selection.Selection{}, selection.Unauthenticated, false
	}
	u, _ := auth.CurrentUser(r)
	sel := selection.Load(sess)
	state := selection.Locate(selection.Subject{Authenticated: u != nil, Admin: u.IsAdmin()}, sel)
	switch state {
	case selection.Unauthenticated, selection.DivisionPending, selection.HospitalPending:
		http.Redirect(w, r, selection.Path(state, ""), http.StatusSeeOther)
		return nil, sel, state, false
	}
	return sess, sel, state, true
}

// ready is locate for pages that need a chosen hospital; the degraded home
// sends the user back to /.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) (*sessions.Session, selection.Selection, bool) {
	sess, sel, state, ok := h.locate(w, r)
	if !ok {
		return nil, sel, false
	}
	if state != selection.BoardReady {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, sel, false
	}
	return sess, sel, true
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("session save failed", zap.Error(err))
	}
}
