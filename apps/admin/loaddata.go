package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/importer"
)

type loadOptions struct {
	events      string
	quality     string
	impact      string
	demographic string
	legacy      bool
	username    string
	node        string
}

// readRows loads a CSV file into header-keyed row maps.
func readRows(path string) ([]importer.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // header decides; short rows are padded below
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]importer.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(importer.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[core.CleanString(col, true /* lower */)] = record[i]
			} else {
				row[core.CleanString(col, true /* lower */)] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (cli *commandLine) loadCSV(opts loadOptions) error {
	ctx := context.Background()

	var ictx importer.Context
	if opts.legacy {
		usr, err := cli.userRepo.GetUserByUsername(ctx, core.CleanString(opts.username, true /* lower */))
		if err != nil {
			return err
		}
		node, err := cli.nodeRepo.GetNodeByName(ctx, core.CleanString(opts.node))
		if err != nil {
			return err
		}
		ictx = &importer.LegacyContext{Uploader: usr, Node: node}
	} else {
		ictx = &importer.CurrentContext{Users: cli.userRepo, Nodes: cli.nodeRepo}
	}

	var src importer.Sources
	var err error
	if opts.events != "" {
		if src.Events, err = readRows(opts.events); err != nil {
			return err
		}
	}
	if opts.quality != "" {
		if src.Quality, err = readRows(opts.quality); err != nil {
			return err
		}
	}
	if opts.impact != "" {
		if src.Impact, err = readRows(opts.impact); err != nil {
			return err
		}
	}
	if opts.demographic != "" {
		if src.Demographic, err = readRows(opts.demographic); err != nil {
			return err
		}
	}

	pipeline := importer.NewPipeline(
		cli.eventRepo, cli.nodeRepo, cli.userRepo, cli.instRepo, cli.metricsRepo,
		importer.NewHTTPDirectory(cli.conf.InstitutionAPIURL), cli.aliases, cli.log,
	)

	var failed bool
	for _, res := range pipeline.ImportAll(ctx, ictx, src) {
		fmt.Printf("%s (batch %s): %d created, %d errors\n", res.Source, res.BatchID, res.Created, len(res.Errors))
		for _, rowErr := range res.Errors {
			fmt.Printf("  row %d [%s]: %s\n", rowErr.Row, rowErr.Field, rowErr.Error)
		}
		failed = failed || res.Failed()
	}
	if failed {
		return errors.New("one or more batches failed; failed batches were not persisted")
	}
	return nil
}
