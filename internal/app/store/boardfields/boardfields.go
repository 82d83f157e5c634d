// internal/app/store/boardfields/boardfields.go
//
// Package boardfields reads board documents written under several historical
// field-name conventions. Each logical field has an ordered alias list; the
// first alias present in a document wins.
package boardfields

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Alias lists per logical field, canonical name first.
var (
	Room       = []string{"room", "Room"}
	Provider   = []string{"provider", "Provider", "provider_name"}
	Surgeon    = []string{"surgeon", "Surgeon", "surgeon_name"}
	StaffID    = []string{"staff_id", "Staff", "staff"}
	HospitalID = []string{"hospital_id", "HospitalID", "hospital"}
)

// Legacy returns every non-canonical alias across all mutable fields. Writers
// remove these so a rewritten document carries only canonical names.
func Legacy() []string {
	var out []string
	for _, list := range [][]string{Provider, Surgeon, StaffID, HospitalID} {
		out = append(out, list[1:]...)
	}
	return out
}

// Resolve maps a raw document to a BoardEntry. Missing fields resolve to "".
// Numeric values are rendered without a fractional part when integral.
func Resolve(doc map[string]any) models.BoardEntry {
	return models.BoardEntry{
		Room:       First(doc, Room),
		Provider:   First(doc, Provider),
		Surgeon:    First(doc, Surgeon),
		StaffID:    First(doc, StaffID),
		HospitalID: First(doc, HospitalID),
	}
}

// First returns the value of the first alias present in doc, as a string.
// A present alias holding nil counts as absent.
func First(doc map[string]any, aliases []string) string {
	for _, key := range aliases {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		return String(v)
	}
	return ""
}

// String coerces a scalar document value to its string form.
func String(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Doc renders e as a document with canonical field names.
func Doc(e models.BoardEntry) map[string]any {
	return map[string]any{
		Room[0]:       e.Room,
		Provider[0]:   e.Provider,
		Surgeon[0]:    e.Surgeon,
		StaffID[0]:    e.StaffID,
		HospitalID[0]: e.HospitalID,
	}
}
