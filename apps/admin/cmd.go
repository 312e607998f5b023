package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/event"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/response"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	conf    *core.Config
	log     core.Logger
	aliases *alias.Resolver

	catalogRepo  catalog.Repository
	eventRepo    event.Repository
	nodeRepo     event.NodeRepository
	userRepo     event.UserRepository
	instRepo     event.InstitutionRepository
	metricsRepo  metrics.Repository
	responseRepo response.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - manage DB schema migrations (goose commands)")
	fmt.Println("  loadcsv [-events FILE] [-quality FILE] [-impact FILE] [-demographic FILE] [-legacy -user USERNAME -node NODE] - import CSV data")
	fmt.Println("  migratemetrics -model MODEL -set SLUG [-event CODE] - rewrite legacy metrics records as response sets")
	fmt.Println("  syncquestions -set SLUG [-file FILE] - sync a question set against the external catalog feed")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loadCmd := flag.NewFlagSet("loadcsv", flag.ExitOnError)
	loadEvents := loadCmd.String("events", "", "Events CSV file.")
	loadQuality := loadCmd.String("quality", "", "Quality metrics CSV file.")
	loadImpact := loadCmd.String("impact", "", "Impact metrics CSV file.")
	loadDemog := loadCmd.String("demographic", "", "Demographic metrics CSV file.")
	loadLegacy := loadCmd.Bool("legacy", false, "Treat files as legacy-format uploads (fixed uploader identity).")
	loadUser := loadCmd.String("user", "", "Uploader username (legacy format only).")
	loadNode := loadCmd.String("node", "", "Uploader node name (legacy format only).")

	migrateMetricsCmd := flag.NewFlagSet("migratemetrics", flag.ExitOnError)
	mmModel := migrateMetricsCmd.String("model", "", "Legacy model: quality, impact or demographic.")
	mmSet := migrateMetricsCmd.String("set", "", "Target question set slug.")
	mmEvent := migrateMetricsCmd.String("event", "", "Restrict to one event code (optional).")

	syncCmd := flag.NewFlagSet("syncquestions", flag.ExitOnError)
	syncSet := syncCmd.String("set", "", "Question set slug to reconcile.")
	syncFile := syncCmd.String("file", "", "Local sync document; defaults to the configured feed URL.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "loadcsv":
		if err := loadCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loadEvents == "" && *loadQuality == "" && *loadImpact == "" && *loadDemog == "" {
			loadCmd.Usage()
			return errHelp
		}
		if *loadLegacy && (*loadUser == "" || *loadNode == "") {
			loadCmd.Usage()
			return errHelp
		}
		return cli.loadCSV(loadOptions{
			events:      *loadEvents,
			quality:     *loadQuality,
			impact:      *loadImpact,
			demographic: *loadDemog,
			legacy:      *loadLegacy,
			username:    *loadUser,
			node:        *loadNode,
		})
	case "migratemetrics":
		if err := migrateMetricsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *mmModel == "" || *mmSet == "" {
			migrateMetricsCmd.Usage()
			return errHelp
		}
		return cli.migrateMetrics(*mmModel, *mmSet, *mmEvent)
	case "syncquestions":
		if err := syncCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *syncSet == "" {
			syncCmd.Usage()
			return errHelp
		}
		return cli.syncQuestions(*syncSet, *syncFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
