package services

import "github.com/Akila-Wasalathilaka/cognihire/internal/models"

// Principal is the already-authenticated caller. Identity resolution happens
// at the boundary; the engine only consumes the result.
type Principal struct {
	UserID   string
	TenantID string
	Role     string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanAccessAssessment applies the ownership rule used by every item and
// telemetry operation: candidates only touch assessments they own, admins
// bypass ownership.
func (p Principal) CanAccessAssessment(a *models.Assessment) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleCandidate && a.CandidateID == p.UserID
}
