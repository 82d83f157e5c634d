// internal/app/features/whiteboard/form.go
package whiteboard

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/htmlsanitize"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/inputval"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Field limits for the add/edit form.
const (
	maxRoomLen    = 64
	maxNameLen    = 128
	maxStaffIDLen = 64
)

type staffOption struct {
	ID    string
	Label string
}

type entryFormData struct {
	viewdata.BaseVM
	Editing bool
	// Action is the form target: /add, or the escaped edit path.
	Action   string
	Room     string
	Provider string
	Surgeon  string
	StaffID  string
	Staff    []staffOption
	// StaffUnavailable is set when the directory scan came back empty.
	StaffUnavailable bool
	Errors           inputval.Errors
	Error            string
}

// entryForm is a sanitized form submission.
type entryForm struct {
	Room     string
	Provider string
	Surgeon  string
	StaffID  string
}

func parseEntryForm(r *http.Request, room string) (entryForm, inputval.Errors) {
	f := entryForm{
		Room:     room,
		Provider: htmlsanitize.PlainText(r.PostFormValue("provider")),
		Surgeon:  htmlsanitize.PlainText(r.PostFormValue("surgeon")),
		StaffID:  htmlsanitize.PlainText(r.PostFormValue("staff_id")),
	}
	if f.Room == "" {
		f.Room = htmlsanitize.PlainText(r.PostFormValue("room"))
	}

	var errs inputval.Errors
	errs.Required("room", "Room", f.Room)
	errs.MaxLen("room", "Room", f.Room, maxRoomLen)
	errs.MaxLen("provider", "Provider", f.Provider, maxNameLen)
	errs.MaxLen("surgeon", "Surgeon", f.Surgeon, maxNameLen)
	errs.MaxLen("staff_id", "Staff", f.StaffID, maxStaffIDLen)
	return f, errs
}

func (f entryForm) input(hospitalID string) whiteboard.EntryInput {
	return whiteboard.EntryInput{
		Room:       f.Room,
		Provider:   f.Provider,
		Surgeon:    f.Surgeon,
		StaffID:    f.StaffID,
		HospitalID: hospitalID,
	}
}

func staffOptions(staff []models.StaffRecord) []staffOption {
	out := make([]staffOption, 0, len(staff))
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if s.StaffID == "" || seen[s.StaffID] {
			continue
		}
		seen[s.StaffID] = true
		label := s.Name
		if s.Role != "" {
			label += " (" + s.Role + ")"
		}
		out = append(out, staffOption{ID: s.StaffID, Label: label})
	}
	return out
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, ctx context.Context, sess *sessions.Session, data entryFormData) {
	title := "Add room"
	data.Action = "/add"
	if data.Editing {
		title = "Edit " + data.Room
		data.Action = editPath(data.Room)
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/")
	data.Apply(sess)

	staff := h.Board.FetchStaff(ctx)
	data.Staff = staffOptions(staff)
	if len(staff) == 0 {
		data.StaffUnavailable = true
		data.Flashes = append(data.Flashes, flash.Message{
			Kind: flash.Warning,
			Text: "The staff directory is unavailable. You can still enter a staff id.",
		})
	}
	h.save(w, r, sess)
	h.Render(w, r, "whiteboard_entry_form", data)
}

// editPath is the edit URL for room. Room names may hold any character, so
// the segment is path-escaped; "/" becomes %2F and still matches {room}.
func editPath(room string) string {
	return "/edit/" + url.PathEscape(room)
}

// roomParam returns the decoded {room} segment. chi matches on RawPath when
// the request carried escapes that Path cannot represent (%2F), and the
// parameter is then still escaped.
func roomParam(r *http.Request) string {
	room := chi.URLParam(r, "room")
	if r.URL.RawPath == "" {
		return room
	}
	if un, err := url.PathUnescape(room); err == nil {
		return un
	}
	return room
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /add                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.ready(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load staff")
	defer cancel()
	h.renderForm(w, r, ctx, sess, entryFormData{})
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	sess, sel, ok := h.ready(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/add")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add room")
	defer cancel()

	f, errs := parseEntryForm(r, "")
	data := entryFormData{Room: f.Room, Provider: f.Provider, Surgeon: f.Surgeon, StaffID: f.StaffID}
	if len(errs) > 0 {
		data.Errors = errs
		h.renderForm(w, r, ctx, sess, data)
		return
	}

	switch h.Board.AddEntry(ctx, f.input(sel.HospitalID)) {
	case whiteboard.Succeeded:
		flash.Add(sess, flash.Success, f.Room+" added.")
		h.save(w, r, sess)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case whiteboard.AlreadyExists:
		data.Error = f.Room + " is already on the board."
		h.renderForm(w, r, ctx, sess, data)
	default:
		data.Error = "The room could not be saved. Please try again."
		h.renderForm(w, r, ctx, sess, data)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /edit/{room}                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	sess, sel, ok := h.ready(w, r)
	if !ok {
		return
	}
	room := roomParam(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load room")
	defer cancel()

	entry, out := h.Board.Entry(ctx, room, sel.HospitalID)
	if out != whiteboard.Succeeded {
		h.entryMissing(w, r, sess, sel, room, out)
		return
	}
	h.renderForm(w, r, ctx, sess, entryFormData{
		Editing:  true,
		Room:     room,
		Provider: entry.Provider,
		Surgeon:  entry.Surgeon,
		StaffID:  entry.StaffID,
	})
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	sess, sel, ok := h.ready(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}
	room := roomParam(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "edit room")
	defer cancel()

	// Rooms outside the selected hospital are treated as absent.
	if _, out := h.Board.Entry(ctx, room, sel.HospitalID); out != whiteboard.Succeeded {
		h.entryMissing(w, r, sess, sel, room, out)
		return
	}

	f, errs := parseEntryForm(r, room)
	data := entryFormData{Editing: true, Room: room, Provider: f.Provider, Surgeon: f.Surgeon, StaffID: f.StaffID}
	if len(errs) > 0 {
		data.Errors = errs
		h.renderForm(w, r, ctx, sess, data)
		return
	}

	switch out := h.Board.EditEntry(ctx, f.input(sel.HospitalID)); out {
	case whiteboard.Succeeded:
		flash.Add(sess, flash.Success, room+" updated.")
		h.save(w, r, sess)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case whiteboard.NotFound:
		h.entryMissing(w, r, sess, sel, room, out)
	default:
		data.Error = "The room could not be saved. Please try again."
		h.renderForm(w, r, ctx, sess, data)
	}
}

func (h *Handler) entryMissing(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sel selection.Selection, room string, out whiteboard.Outcome) {
	if out == whiteboard.NotFound {
		flash.Add(sess, flash.Error, room+" is not on the "+sel.HospitalName+" board.")
	} else {
		flash.Add(sess, flash.Error, "The room could not be loaded. Please try again.")
	}
	h.save(w, r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
