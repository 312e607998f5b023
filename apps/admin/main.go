package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	logsvc "github.com/elixirhub/metricsdb/services/logger"
	"github.com/elixirhub/metricsdb/storage/database"
	sqlxrepos "github.com/elixirhub/metricsdb/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	appLog := logsvc.NewRollbarLogger(logger, conf)
	appLog.Enable(!(conf.Debug || conf.TestMode))

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	sdb := sqlx.NewDb(db, conf.Database.Engine)

	aliases, err := alias.NewResolver(conf.AliasFile, appLog)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:           db,
		conf:         conf,
		log:          appLog,
		aliases:      aliases,
		catalogRepo:  sqlxrepos.NewCatalogRepository(sdb),
		eventRepo:    sqlxrepos.NewEventRepository(sdb),
		nodeRepo:     sqlxrepos.NewNodeRepository(sdb),
		userRepo:     sqlxrepos.NewUserRepository(sdb),
		instRepo:     sqlxrepos.NewInstitutionRepository(sdb),
		metricsRepo:  sqlxrepos.NewMetricsRepository(sdb),
		responseRepo: sqlxrepos.NewResponseRepository(sdb),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
