package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group starts and stops a set of pollers together
type Group struct {
	pollers []*Poller
}

func NewGroup(pollers ...*Poller) *Group {
	return &Group{pollers: pollers}
}

// Len returns the number of pollers in the group
func (g *Group) Len() int {
	return len(g.pollers)
}

func (g *Group) Start(ctx context.Context) {
	for _, p := range g.pollers {
		p.Start(ctx)
	}
}

// Stop stops every poller concurrently and returns when all have finished
func (g *Group) Stop() {
	var eg errgroup.Group
	for _, p := range g.pollers {
		eg.Go(func() error {
			p.Stop()
			return nil
		})
	}
	_ = eg.Wait()
}
