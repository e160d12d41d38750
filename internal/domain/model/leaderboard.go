package model

type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	TeamID       string  `json:"teamId"`
	TeamName     string  `json:"teamName"`
	AverageScore float64 `json:"averageScore"`
	JudgeCount   int     `json:"judgeCount"`
}

type DashboardStats struct {
	TotalEvents  int `json:"totalEvents"`
	TotalTeams   int `json:"totalTeams"`
	TotalUsers   int `json:"totalUsers"`
	ActiveEvents int `json:"activeEvents"`
}
