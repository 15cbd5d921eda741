package models

import "time"

// Roles carried by an authenticated principal.
const (
	RoleAdmin     = "ADMIN"
	RoleCandidate = "CANDIDATE"
)

type Tenant struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:200;not null"`
	Subdomain string `gorm:"size:200;uniqueIndex"`
	CreatedAt time.Time
}

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	TenantID     string `gorm:"size:36;index"`
	Email        string `gorm:"size:320;uniqueIndex"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null"` // ADMIN, CANDIDATE
	IsActive     bool   `gorm:"default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CandidateProfile links a candidate user to the job role they are being
// screened for.
type CandidateProfile struct {
	UserID    string `gorm:"primaryKey;size:36"`
	FullName  string `gorm:"size:200"`
	JobRoleID *string
}
