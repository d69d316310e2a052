package frontend

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chartcyanvas/backend/internal/dto"
	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("not found")

// Profile is everything the user page renders on first paint.
type Profile struct {
	User    *dto.UserResponse
	Charts  []dto.ChartResponse
	Session *dto.SessionUser
}

// LoadProfile fetches the user, their charts and the viewer's session
// concurrently. It returns ErrNotFound when the user does not exist. Chart
// and session failures degrade to empty data.
func LoadProfile(ctx context.Context, client *Client, caller Caller, handle string) (*Profile, error) {
	var p Profile
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := client.User(ctx, caller, handle)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}
		p.User = user
		return nil
	})
	g.Go(func() error {
		charts, err := client.Charts(ctx, caller, handle)
		if err != nil {
			slog.Warn("failed to load user charts", "handle", handle, "error", err)
			charts = []dto.ChartResponse{}
		}
		p.Charts = charts
		return nil
	})
	g.Go(func() error {
		session, err := client.Session(ctx, caller)
		if err != nil {
			slog.Warn("failed to load session", "error", err)
		}
		p.Session = session
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &p, nil
}
