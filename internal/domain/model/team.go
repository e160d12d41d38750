package model

import "time"

type Team struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Name        string    `json:"name"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TeamMember struct {
	TeamID   string    `json:"teamId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type TeamJudge struct {
	TeamID     string    `json:"teamId"`
	JudgeID    string    `json:"judgeId"`
	EventID    string    `json:"eventId"`
	AssignedAt time.Time `json:"assignedAt"`
}

// AssignedTeam is a team as seen by one of its judges.
type AssignedTeam struct {
	Team
	Members []User `json:"members"`
}
