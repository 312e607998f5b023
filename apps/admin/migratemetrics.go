package main

import (
	"context"
	"fmt"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/migrate"
)

func (cli *commandLine) migrateMetrics(model, setSlug, eventCode string) error {
	ctx := context.Background()

	spec, err := metrics.SpecFor(core.CleanString(model, true /* lower */))
	if err != nil {
		return err
	}
	set, err := cli.catalogRepo.GetQuestionSetBySlug(ctx, core.CleanString(setSlug, true /* lower */))
	if err != nil {
		return err
	}

	var eventID *int
	if eventCode != "" {
		evt, err := cli.eventRepo.GetEventByCode(ctx, core.CleanString(eventCode))
		if err != nil {
			return err
		}
		eventID = &evt.ID
	}

	records, err := metrics.NewService(cli.metricsRepo, cli.log).Records(ctx, spec.Model, eventID)
	if err != nil {
		return err
	}

	res, err := migrate.NewEngine(cli.responseRepo, cli.aliases, cli.log).Migrate(ctx, set, spec, records)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d response sets (%d responses) created, %d empty records skipped\n",
		res.Model, res.ResponseSets, res.Responses, res.Skipped)
	return nil
}
