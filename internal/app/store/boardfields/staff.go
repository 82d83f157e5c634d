package boardfields

import "github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"

// Staff record aliases. Older directory loads used exported Go field names.
var (
	StaffKey   = []string{"staff_id", "StaffID", "id"}
	StaffName  = []string{"name", "Name"}
	StaffRole  = []string{"role", "Role"}
	SubRole    = []string{"sub_role", "SubRole"}
	LocationID = []string{"location_id", "LocationID"}
)

// Staff maps a raw staff document to a StaffRecord.
func Staff(doc map[string]any) models.StaffRecord {
	return models.StaffRecord{
		StaffID:    First(doc, StaffKey),
		Name:       First(doc, StaffName),
		Role:       First(doc, StaffRole),
		SubRole:    First(doc, SubRole),
		LocationID: First(doc, LocationID),
	}
}
