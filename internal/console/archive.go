package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/game"
)

var errNoStore = errors.New("no game archive configured")

func (c *Console) archive(ctx context.Context, cmd string, args []string) error {
	if c.Store == nil {
		return errNoStore
	}
	switch cmd {
	case "save":
		r := c.game.Record()
		if err := c.Store.Save(r); err != nil {
			return err
		}
		c.game.ID = r.ID
		c.printf("saved %s\n", r.ID)

	case "load":
		if len(args) != 1 {
			return errors.New("usage: load <id>")
		}
		r, err := c.Store.Load(args[0])
		if err != nil {
			return err
		}
		g, err := game.Restore(r)
		if err != nil {
			return err
		}
		c.reset(g)
		c.printf("loaded %s after %d moves (%s)\n", r.ID, len(r.Moves), g.Status())
		return c.maybeComputerMove(ctx)

	case "list":
		records, err := c.Store.List()
		if err != nil {
			return err
		}
		for _, r := range records {
			c.printf("%s  %s  %3d moves  %-7s %s\n",
				r.ID, r.UpdatedAt.Format("2006-01-02 15:04"), len(r.Moves), r.Result, r.Status)
		}
		if len(records) == 0 {
			c.printf("no saved games\n")
		}

	case "delete":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		if err := c.Store.Delete(args[0]); err != nil {
			return err
		}
		c.printf("deleted %s\n", args[0])

	case "stats":
		s, err := c.Store.Stats()
		if err != nil {
			return err
		}
		c.printf("finished %d: white %d, black %d, draws %d (%.1f%%)\n",
			s.GamesFinished, s.WhiteWins, s.BlackWins, s.Draws, s.DrawRate())

	default:
		return fmt.Errorf("unknown archive command %q", cmd)
	}
	return nil
}
