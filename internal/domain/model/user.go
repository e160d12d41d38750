package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
	RoleJudge   = "judge"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleMentor, RoleAdmin, RoleJudge:
		return true
	}
	return false
}

func ValidTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// CanJudge reports whether role may submit scores.
func CanJudge(role string) bool {
	return role == RoleJudge || role == RoleMentor || role == RoleAdmin
}

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Not exposed
	FullName         string    `json:"fullName"`
	Role             string    `json:"role"`
	EnrollmentNumber *string   `json:"enrollmentNumber"`
	Department       *string   `json:"department"`
	Theme            string    `json:"theme"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type MentorProfile struct {
	UserID        string    `json:"userId"`
	Company       string    `json:"company"`
	Domain        string    `json:"domain"`
	Experience    string    `json:"experience"`
	BankName      string    `json:"bankName"`
	AccountNumber string    `json:"accountNumber"`
	IFSCCode      string    `json:"ifscCode"`
	Branch        string    `json:"branch"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RedactBanking clears the payout fields.
func (p *MentorProfile) RedactBanking() {
	p.BankName = ""
	p.AccountNumber = ""
	p.IFSCCode = ""
	p.Branch = ""
}

// Mentor is a mentor user joined with its profile. Profile is nil when the
// profile row is missing.
type Mentor struct {
	User
	Profile *MentorProfile `json:"profile"`
}
