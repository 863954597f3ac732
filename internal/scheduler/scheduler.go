// Package scheduler keeps proactive commands fresh.
//
// Proactive commands are eagerly pre-evaluated so the palette can show
// their answers instantly. The refresher re-runs that prefetch on a cron
// schedule; individual failures stay silent, the command simply loses its
// cached answer until a later pass succeeds.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"scribe/internal/palette"
)

// maxConcurrent bounds how many prefetches run at once; a refresh pass
// must not monopolize the inference service.
const maxConcurrent = 4

// Refresher re-prefetches proactive commands on a schedule.
type Refresher struct {
	reg      palette.Invoker
	commands func() []*palette.Command
	cron     *cron.Cron
}

// NewRefresher creates a refresher. commands is called at the start of
// every pass so newly saved commands are picked up.
func NewRefresher(reg palette.Invoker, commands func() []*palette.Command) *Refresher {
	return &Refresher{
		reg:      reg,
		commands: commands,
	}
}

// RefreshAll runs one prefetch pass over all proactive commands, at most
// maxConcurrent at a time. It returns the number of commands that now hold
// a cached answer.
func (r *Refresher) RefreshAll(ctx context.Context) int {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrent)

	var proactive []*palette.Command
	for _, cmd := range r.commands() {
		if cmd.Proactive && !cmd.IsAnswer() {
			proactive = append(proactive, cmd)
		}
	}

	for _, cmd := range proactive {
		cmd := cmd
		group.Go(func() error {
			cmd.Prefetch(ctx, r.reg, cmd.UserQuery, "")
			return nil
		})
	}
	group.Wait()

	fresh := 0
	for _, cmd := range proactive {
		if cmd.Answer != nil {
			fresh++
		}
	}

	log.Printf("[scheduler] refreshed %d/%d proactive commands", fresh, len(proactive))
	return fresh
}

// Start schedules refresh passes with the given cron spec ("@every 10m",
// "0 * * * *"). The first pass runs when the schedule first fires, not
// immediately.
func (r *Refresher) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		r.RefreshAll(context.Background())
	}); err != nil {
		return err
	}

	c.Start()
	r.cron = c

	log.Printf("[scheduler] proactive refresh scheduled: %s", spec)
	return nil
}

// Stop stops the schedule and waits for a running pass to finish.
func (r *Refresher) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
		r.cron = nil
	}
}
