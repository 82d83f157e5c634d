// internal/domain/models/staff.go
package models

// Staff roles and sub-roles as stored in the staff directory.
const (
	StaffRoleCRNA    = "CRNA"
	StaffRoleAA      = "AA"
	StaffRoleStudent = "Student"

	// SubRoleStudent marks student registered nurse anesthetists.
	SubRoleStudent = "SRNA"
)

// StaffRecord is one clinical staff member. The whiteboard only reads these;
// they are maintained by an administrative process.
type StaffRecord struct {
	StaffID    string `bson:"staff_id" dynamodbav:"staff_id" json:"staff_id"`
	Name       string `bson:"name" dynamodbav:"name" json:"name"`
	Role       string `bson:"role" dynamodbav:"role" json:"role"`
	SubRole    string `bson:"sub_role,omitempty" dynamodbav:"sub_role,omitempty" json:"sub_role,omitempty"`
	LocationID string `bson:"location_id" dynamodbav:"location_id" json:"location_id"`
}

// IsStudent reports whether the staff member carries the student sub-role.
func (s StaffRecord) IsStudent() bool {
	return s.SubRole == SubRoleStudent
}
