package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/railcrew/worklog/internal/access"
)

func (a *App) getStatus() string {
	s := ""
	if id := a.session.Identity(); id != nil {
		s = id.Name
		if a.session.State() == access.ActiveAsAdminViewing {
			s = fmt.Sprintf("%s admin@%s", s, a.session.TargetID())
		}
	}
	if a.session.Degraded() {
		s = s + " [unsynced]"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the worklog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}
