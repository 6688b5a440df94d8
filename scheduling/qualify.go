package scheduling

import (
	"github.com/bookline-app/bookline/models"
)

// QualifiedStaff narrows the roster to staff eligible for a request. With
// an explicit pick the result is that staff member alone, and only while
// active. With no pick ("any available") every active staff member
// qualifies; there is no staff-to-service skill mapping, any active staff
// member is presumed able to perform any service.
func QualifiedStaff(roster []models.StaffMember, pickedID *uint) []models.StaffMember {
	var qualified []models.StaffMember
	for _, s := range roster {
		if !s.IsActive {
			continue
		}
		if pickedID != nil && s.ID != *pickedID {
			continue
		}
		qualified = append(qualified, s)
	}
	return qualified
}
