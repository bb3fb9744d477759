package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/models"
)

func (a *App) Login(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Worker id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	workshop, err := GetSimpleText(a.reader, "Workshop", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fleet, err := GetSimpleText(a.reader, "Fleet", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	form := models.Identity{ID: id, Name: name, Workshop: workshop, Fleet: fleet}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.session.Login(opCtx, form); err != nil {
		if errors.Is(err, common.ErrIncompleteForm) {
			printlnFn("All fields are required")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn("Welcome,", name)
	if a.session.Role() == models.RoleAdmin {
		printlnFn("Admin commands enabled: users, view <id>")
	}
	if a.session.Degraded() {
		printlnFn("Warning: backing store unreachable, records are kept in memory only")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	printlnFn("Logged out")
	return nil
}
