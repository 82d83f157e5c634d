// internal/app/features/whiteboard/board.go
package whiteboard

import (
	"net/http"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
)

type boardRow struct {
	whiteboard.Row
	EditURL string
}

type boardData struct {
	viewdata.BaseVM
	Rows []boardRow
	// Sample is set when the store was unreachable and sample rooms are shown.
	Sample bool
	// StaffDegraded is set when staff names could not be resolved.
	StaffDegraded bool
	Degraded      bool
}

func rowsOf(board whiteboard.Board) []boardRow {
	rows := board.Rows()
	out := make([]boardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, boardRow{Row: row, EditURL: editPath(row.Room)})
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	sess, sel, state, ok := h.locate(w, r)
	if !ok {
		return
	}

	data := boardData{BaseVM: viewdata.NewBaseVM(r, "Whiteboard", "/")}
	data.Apply(sess)

	if state == selection.DegradedHome {
		data.Degraded = true
		h.save(w, r, sess)
		h.Render(w, r, "whiteboard_board", data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "fetch board")
	defer cancel()

	snap := h.Board.HospitalSnapshot(ctx, sel.HospitalID)
	board := snap.Board
	if !snap.Loaded {
		board = whiteboard.FallbackBoard()
		data.Sample = true
		data.Flashes = append(data.Flashes, flash.Message{
			Kind: flash.Warning,
			Text: "The board could not be loaded. Sample rooms are shown instead.",
		})
	} else if snap.StaffDegraded {
		data.StaffDegraded = true
		data.Flashes = append(data.Flashes, flash.Message{
			Kind: flash.Warning,
			Text: "The staff directory is unavailable. Staff names may be missing.",
		})
	}
	data.Rows = rowsOf(board)

	h.save(w, r, sess)
	h.Render(w, r, "whiteboard_board", data)
}
