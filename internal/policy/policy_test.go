package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

func TestEvaluateEmptyRequirementAllowsAnySubject(t *testing.T) {
	decision := Evaluate([]string{"customer"})
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.MatchedRole)
}

func TestEvaluateMatchesAnyRequiredRole(t *testing.T) {
	decision := Evaluate([]string{"customer", "pharmacist"}, enums.RoleAdmin, enums.RolePharmacist)
	assert.True(t, decision.Allowed)
	assert.Equal(t, enums.RolePharmacist, decision.MatchedRole)
}

func TestEvaluateDeniesMissingRole(t *testing.T) {
	decision := Evaluate([]string{"customer"}, enums.RoleAdmin)
	assert.False(t, decision.Allowed)
}

func TestEvaluateIgnoresUnknownSubjectRoles(t *testing.T) {
	decision := Evaluate([]string{"superuser", ""}, enums.RoleAdmin)
	assert.False(t, decision.Allowed)
}

func TestDomainHelpers(t *testing.T) {
	assert.True(t, CanManageCatalog([]string{"pharmacist"}))
	assert.False(t, CanManageCatalog([]string{"staff"}))
	assert.False(t, CanManageCatalog([]string{"customer"}))
	assert.True(t, CanManageOrders([]string{"staff"}))
	assert.False(t, CanManageOrders([]string{"customer"}))
	assert.True(t, CanReviewPrescriptions([]string{"admin"}))
	assert.False(t, CanReviewPrescriptions([]string{"customer"}))
	assert.True(t, CanAdministerUsers([]string{"admin"}))
	assert.False(t, CanAdministerUsers([]string{"pharmacist"}))
}
