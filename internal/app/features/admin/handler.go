// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.uber.org/zap"
)

const recentLimit = 25

type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

type DivisionLister interface {
	List(ctx context.Context) ([]models.Division, error)
}

type HospitalLister interface {
	List(ctx context.Context) ([]models.Hospital, error)
}

// Handler serves the read-only directory overview for administrators.
type Handler struct {
	Users     UserLister
	Divisions DivisionLister
	Hospitals HospitalLister
	History   whiteboard.HistoryReader // nil when the history backend cannot list
	Log       *zap.Logger
	Render    uierrors.RenderFunc
}

func NewHandler(users UserLister, divisions DivisionLister, hospitals HospitalLister, history whiteboard.HistoryReader, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     users,
		Divisions: divisions,
		Hospitals: hospitals,
		History:   history,
		Log:       logger,
		Render:    templates.Render,
	}
}

type hospitalRow struct {
	Name     string
	Division string
}

type overviewData struct {
	viewdata.BaseVM
	Users       []models.User
	Divisions   []models.Division
	Hospitals   []hospitalRow
	Assignments []models.AssignmentHistoryRecord
	Unavailable []string // sections that failed to load
}

// ServeOverview handles GET /admin. Each section loads independently; a
// failed section is reported on the page instead of failing the request.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin overview")
	defer cancel()

	data := overviewData{BaseVM: viewdata.NewBaseVM(r, "Administration", "/")}

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Warn("admin: list users failed", zap.Error(err))
		data.Unavailable = append(data.Unavailable, "users")
	}
	data.Users = users

	divisions, err := h.Divisions.List(ctx)
	if err != nil {
		h.Log.Warn("admin: list divisions failed", zap.Error(err))
		data.Unavailable = append(data.Unavailable, "divisions")
	}
	data.Divisions = divisions

	names := make(map[string]string, len(divisions))
	for _, d := range divisions {
		names[d.ID] = d.Name
	}

	hospitals, err := h.Hospitals.List(ctx)
	if err != nil {
		h.Log.Warn("admin: list hospitals failed", zap.Error(err))
		data.Unavailable = append(data.Unavailable, "hospitals")
	}
	for _, hs := range hospitals {
		div := names[hs.DivisionID]
		if div == "" {
			div = hs.DivisionID
		}
		data.Hospitals = append(data.Hospitals, hospitalRow{Name: hs.Name, Division: div})
	}

	if h.History != nil {
		recs, err := h.History.RecentAssignments(ctx, recentLimit)
		if err != nil {
			h.Log.Warn("admin: list recent assignments failed", zap.Error(err))
			data.Unavailable = append(data.Unavailable, "assignment history")
		}
		data.Assignments = recs
	}

	h.Render(w, r, "admin_overview", data)
}
