// Package policy centralizes role-based access decisions so controllers and
// middleware never compare role strings themselves.
package policy

import "github.com/medgrove/pharmacare-backend/pkg/enums"

// Decision is the outcome of evaluating a subject against a requirement.
type Decision struct {
	Allowed     bool
	MatchedRole enums.Role
}

// Evaluate grants access when the subject holds at least one of the required
// roles. An empty requirement means any authenticated subject is allowed.
func Evaluate(subjectRoles []string, required ...enums.Role) Decision {
	if len(required) == 0 {
		return Decision{Allowed: true}
	}
	for _, want := range required {
		for _, have := range subjectRoles {
			if enums.Role(have) == want {
				return Decision{Allowed: true, MatchedRole: want}
			}
		}
	}
	return Decision{}
}

// CanManageCatalog reports whether the subject may mutate products,
// categories, suppliers and coupons.
func CanManageCatalog(subjectRoles []string) bool {
	return Evaluate(subjectRoles, enums.RoleAdmin, enums.RolePharmacist).Allowed
}

// CanManageOrders reports whether the subject may read and operate on any
// customer's orders.
func CanManageOrders(subjectRoles []string) bool {
	return Evaluate(subjectRoles, enums.RoleAdmin, enums.RolePharmacist, enums.RoleStaff).Allowed
}

// CanReviewPrescriptions reports whether the subject may approve or reject
// uploaded prescriptions.
func CanReviewPrescriptions(subjectRoles []string) bool {
	return Evaluate(subjectRoles, enums.RoleAdmin, enums.RolePharmacist).Allowed
}

// CanAdministerUsers reports whether the subject may manage accounts and
// role assignments.
func CanAdministerUsers(subjectRoles []string) bool {
	return Evaluate(subjectRoles, enums.RoleAdmin).Allowed
}
