package token

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Coalescing shares one in-flight refresh between callers holding the same refresh token.
// A rotated refresh token is single-use, so concurrent 401s must result in one backend call.
type Coalescing struct {
	next  Refresher
	group singleflight.Group
}

func NewCoalescing(next Refresher) *Coalescing {
	return &Coalescing{next: next}
}

func (c *Coalescing) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	v, err, _ := c.group.Do(refreshToken, func() (any, error) {
		return c.next.Refresh(context.WithoutCancel(ctx), refreshToken)
	})
	if err != nil {
		return nil, err
	}
	// Each caller gets its own copy.
	tok := *v.(*oauth2.Token)
	return &tok, nil
}
