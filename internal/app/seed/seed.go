// Package seed generates and loads demo data for local development.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gosimple/slug"
)

type Options struct {
	Students      int
	Judges        int
	Teams         int
	JudgesPerTeam int
	// Password is shared by every seeded judge. Students sign in with
	// their enrollment number.
	Password string
}

func DefaultOptions() Options {
	return Options{Students: 24, Judges: 4, Teams: 6, JudgesPerTeam: 2, Password: "judge-password"}
}

type TeamSeed struct {
	Team      model.Team
	MemberIDs []string
	JudgeIDs  []string
}

// Dataset is one generated event with its people, teams and scores.
type Dataset struct {
	Event    model.Event
	Criteria []model.JudgingCriterion
	Students []model.User
	Judges   []model.User
	Teams    []TeamSeed
	Scores   []model.Score
	// passwords holds the plaintext password per user id until Load
	// hashes them.
	passwords map[string]string
}

type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator returns a generator; equal seeds produce equal datasets.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(uint64(seed)),
		now:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

var criteriaNames = []string{"Innovation", "Technical Execution", "Design", "Presentation"}

func (g *Generator) Generate(opts Options) Dataset {
	ds := Dataset{passwords: make(map[string]string)}

	name := strings.TrimSpace(g.faker.HackerAdjective()+" "+g.faker.HackerNoun()) + " Hackathon"
	starts := g.now.AddDate(0, 0, g.faker.Number(1, 30))
	ends := starts.Add(48 * time.Hour)
	ds.Event = model.Event{
		ID:       g.id(),
		Name:     titleCase(name),
		Slug:     slug.Make(name),
		Status:   model.EventActive,
		StartsAt: &starts,
		EndsAt:   &ends,
	}

	for i, c := range criteriaNames {
		ds.Criteria = append(ds.Criteria, model.JudgingCriterion{
			ID:          g.id(),
			EventID:     ds.Event.ID,
			Name:        c,
			Description: g.faker.Sentence(g.faker.Number(6, 12)),
			MaxScore:    10,
			Weight:      1,
			SortOrder:   i,
		})
	}

	departments := []string{"Computer Science", "Electronics", "Mechanical", "Design"}
	for i := 0; i < opts.Students; i++ {
		enrollment := g.faker.Numerify("EN########")
		dept := departments[g.faker.Number(0, len(departments)-1)]
		u := g.user(i, model.RoleStudent)
		u.EnrollmentNumber = &enrollment
		u.Department = &dept
		ds.Students = append(ds.Students, u)
		ds.passwords[u.ID] = enrollment
	}
	for i := 0; i < opts.Judges; i++ {
		u := g.user(i, model.RoleJudge)
		ds.Judges = append(ds.Judges, u)
		ds.passwords[u.ID] = opts.Password
	}

	if opts.Teams <= 0 {
		return ds
	}
	teams := make([]TeamSeed, opts.Teams)
	for i := range teams {
		teams[i].Team = model.Team{
			ID:      g.id(),
			EventID: ds.Event.ID,
			Name:    titleCase(g.faker.AppName()) + fmt.Sprintf(" %d", i+1),
		}
	}
	for i, s := range ds.Students {
		t := &teams[i%len(teams)]
		t.MemberIDs = append(t.MemberIDs, s.ID)
	}
	if len(ds.Judges) > 0 {
		perTeam := min(opts.JudgesPerTeam, len(ds.Judges))
		for i := range teams {
			for j := 0; j < perTeam; j++ {
				judge := ds.Judges[(i+j)%len(ds.Judges)]
				teams[i].JudgeIDs = append(teams[i].JudgeIDs, judge.ID)
				ds.Scores = append(ds.Scores, g.score(teams[i].Team.ID, judge.ID, ds.Event.ID, ds.Criteria))
			}
		}
	}
	for i := range teams {
		teams[i].Team.MemberCount = len(teams[i].MemberIDs)
	}
	ds.Teams = teams
	return ds
}

func (g *Generator) user(i int, role string) model.User {
	first, last := g.faker.FirstName(), g.faker.LastName()
	return model.User{
		ID:       g.id(),
		Email:    fmt.Sprintf("%s.%s.%d@%s.hub.test", strings.ToLower(first), strings.ToLower(last), i, role),
		FullName: first + " " + last,
		Role:     role,
		Theme:    model.ThemeLight,
	}
}

func (g *Generator) score(teamID, judgeID, eventID string, criteria []model.JudgingCriterion) model.Score {
	s := model.Score{
		TeamID:         teamID,
		JudgeID:        judgeID,
		EventID:        eventID,
		CriteriaScores: make(map[string]float64, len(criteria)),
		Comments:       g.faker.Sentence(g.faker.Number(4, 10)),
	}
	for _, c := range criteria {
		v := float64(g.faker.Number(c.MaxScore/2, c.MaxScore))
		s.CriteriaScores[c.ID] = v
		s.Total += v
	}
	return s
}

func (g *Generator) id() string {
	return g.faker.UUID()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Repos is the set of repositories Load writes through.
type Repos struct {
	Users   repository.UserRepository
	Events  repository.EventRepository
	Teams   repository.TeamRepository
	Judging repository.JudgingRepository
}

// Load inserts ds. It is not idempotent; seeding twice fails on the event
// slug.
func Load(ctx context.Context, repos Repos, ds Dataset) error {
	if err := repos.Events.Create(ctx, &ds.Event); err != nil {
		return fmt.Errorf("seed event: %w", err)
	}
	for i := range ds.Criteria {
		if err := repos.Judging.CreateCriterion(ctx, &ds.Criteria[i]); err != nil {
			return fmt.Errorf("seed criterion %s: %w", ds.Criteria[i].Name, err)
		}
	}

	users := append(append([]model.User{}, ds.Students...), ds.Judges...)
	for i := range users {
		hash, err := security.HashPassword(ds.passwords[users[i].ID])
		if err != nil {
			return fmt.Errorf("seed hash password: %w", err)
		}
		users[i].PasswordHash = hash
		if err := repos.Users.Create(ctx, nil, &users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}

	for i := range ds.Teams {
		t := &ds.Teams[i]
		if err := repos.Teams.Create(ctx, &t.Team, t.MemberIDs); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Team.Name, err)
		}
		for _, judgeID := range t.JudgeIDs {
			if err := repos.Teams.AssignJudge(ctx, t.Team.ID, judgeID); err != nil {
				return fmt.Errorf("seed judge assignment: %w", err)
			}
		}
	}

	for i := range ds.Scores {
		if err := repos.Judging.UpsertScore(ctx, &ds.Scores[i]); err != nil {
			return fmt.Errorf("seed score: %w", err)
		}
	}
	return nil
}
