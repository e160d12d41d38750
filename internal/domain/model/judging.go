package model

import "time"

type JudgingCriterion struct {
	ID          string  `json:"id"`
	EventID     string  `json:"eventId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxScore    int     `json:"maxScore"`
	Weight      float64 `json:"weight"`
	SortOrder   int     `json:"sortOrder"`
}

type Score struct {
	TeamID         string             `json:"teamId"`
	JudgeID        string             `json:"judgeId"`
	EventID        string             `json:"eventId"`
	CriteriaScores map[string]float64 `json:"criteriaScores"`
	Total          float64            `json:"total"`
	Comments       string             `json:"comments"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}
