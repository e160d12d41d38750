package main

import (
	"fmt"
	"strings"

	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// create-admin provisions an admin account from the operator shell, without
// going through the public signup route.
func newCreateAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "create an admin account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"HUBCTL_ADMIN_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			hash, err := security.HashPassword(c.String("password"))
			if err != nil {
				return err
			}
			user := &model.User{
				ID:           uuid.NewString(),
				Email:        strings.ToLower(strings.TrimSpace(c.String("email"))),
				PasswordHash: hash,
				FullName:     strings.TrimSpace(c.String("name")),
				Role:         model.RoleAdmin,
				Theme:        model.ThemeLight,
			}
			if err := repository.NewPgUserRepository(db).Create(c.Context, nil, user); err != nil {
				return err
			}
			fmt.Printf("created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}
