package main

import (
	"fmt"
	"time"

	"hackathon_hub/internal/app/seed"
	"hackathon_hub/internal/domain/repository"

	"github.com/urfave/cli/v2"
)

func newSeedCommand() *cli.Command {
	defaults := seed.DefaultOptions()
	return &cli.Command{
		Name:  "seed",
		Usage: "insert a demo event with students, judges, teams and scores",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Usage: "random seed (default: current time)"},
			&cli.IntFlag{Name: "students", Value: defaults.Students},
			&cli.IntFlag{Name: "judges", Value: defaults.Judges},
			&cli.IntFlag{Name: "teams", Value: defaults.Teams},
			&cli.IntFlag{Name: "judges-per-team", Value: defaults.JudgesPerTeam},
			&cli.StringFlag{Name: "judge-password", Value: defaults.Password},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			s := c.Int64("seed")
			if !c.IsSet("seed") {
				s = time.Now().UnixNano()
			}

			ds := seed.NewGenerator(s).Generate(seed.Options{
				Students:      c.Int("students"),
				Judges:        c.Int("judges"),
				Teams:         c.Int("teams"),
				JudgesPerTeam: c.Int("judges-per-team"),
				Password:      c.String("judge-password"),
			})
			err = seed.Load(c.Context, seed.Repos{
				Users:   repository.NewPgUserRepository(db),
				Events:  repository.NewPgEventRepository(db),
				Teams:   repository.NewPgTeamRepository(db),
				Judging: repository.NewPgJudgingRepository(db),
			}, ds)
			if err != nil {
				return err
			}
			fmt.Printf("seeded event %q (%s): %d students, %d judges, %d teams\n",
				ds.Event.Name, ds.Event.Slug, len(ds.Students), len(ds.Judges), len(ds.Teams))
			return nil
		},
	}
}
