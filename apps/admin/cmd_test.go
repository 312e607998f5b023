package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/metrics"
	inmemdb "github.com/elixirhub/metricsdb/storage/database/inmem"
	testutil "github.com/elixirhub/metricsdb/tests"
)

func setup(t *testing.T) (*commandLine, *inmemdb.DB) {
	t.Helper()

	db := inmemdb.NewDB()
	aliases, err := alias.NewResolver("", nil)
	if err != nil {
		t.Fatalf("alias.NewResolver() failed: %v", err)
	}
	cli := &commandLine{
		conf:         &core.Config{},
		log:          testutil.Logger{},
		aliases:      aliases,
		catalogRepo:  inmemdb.NewCatalogRepository(db),
		eventRepo:    inmemdb.NewEventRepository(db),
		nodeRepo:     inmemdb.NewNodeRepository(db),
		userRepo:     inmemdb.NewUserRepository(db),
		instRepo:     inmemdb.NewInstitutionRepository(db),
		metricsRepo:  inmemdb.NewMetricsRepository(db),
		responseRepo: inmemdb.NewResponseRepository(db),
	}
	return cli, db
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "institution", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_help(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "loadcsv: no files", args: []string{"loadcsv"}, wantErr: errHelp},
		{name: "loadcsv: legacy without identity", args: []string{"loadcsv", "-events", "x.csv", "-legacy"}, wantErr: errHelp},
		{name: "migratemetrics: no flags", args: []string{"migratemetrics"}, wantErr: errHelp},
		{name: "migratemetrics: model only", args: []string{"migratemetrics", "-model", "quality"}, wantErr: errHelp},
		{name: "syncquestions: no set", args: []string{"syncquestions"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_readRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	content := "Code,Title,Node\nEV-1,Test Event,Belgium\nEV-2,Short Row\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing CSV failed: %v", err)
	}

	rows, err := readRows(path)
	if err != nil {
		t.Fatalf("readRows() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("readRows() = %d rows, want 2", len(rows))
	}
	// header columns are lower-cased keys
	if rows[0]["code"] != "EV-1" || rows[0]["title"] != "Test Event" {
		t.Errorf("row 0 = %v", rows[0])
	}
	// short rows are padded with blanks
	if got, ok := rows[1]["node"]; !ok || got != "" {
		t.Errorf("row 1 node = %q (present %v), want padded blank", got, ok)
	}
}

func Test_readRows_missingFile(t *testing.T) {
	if _, err := readRows(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("readRows() expected error, got nil")
	}
}

func Test_commandLine_loadCSV(t *testing.T) {
	cli, db := setup(t)
	db.AddNode("Belgium")
	db.AddUser("admin", "admin@test.org", 1)

	path := filepath.Join(t.TempDir(), "events.csv")
	content := "code,title,node,date_start,date_end,type,funding,location,number_participants,number_trainers,user,created\n" +
		"EV-1,Test Event,Belgium,2024-03-01,2024-03-02,Training - face to face,ELIXIR Node,\"Leuven, Belgium\",25,3,admin,2024-01-05\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing CSV failed: %v", err)
	}

	if err := cli.run([]string{"admin", "loadcsv", "-events", path}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	evt, err := cli.eventRepo.GetEventByCode(context.Background(), "EV-1")
	if err != nil {
		t.Fatalf("GetEventByCode() failed: %v", err)
	}
	if evt.Title != "Test Event" || evt.LocationCity != "Leuven" {
		t.Errorf("event = %+v", evt)
	}
}

func seedLegacyQuality(t *testing.T, cli *commandLine) {
	t.Helper()
	ctx := context.Background()

	set, err := cli.catalogRepo.CreateQuestionSet(ctx, catalog.QuestionSet{Name: "Legacy Quality", Slug: "legacy-quality"})
	if err != nil {
		t.Fatalf("CreateQuestionSet() failed: %v", err)
	}
	for _, fld := range metrics.QualitySpec().Fields {
		q, err := cli.catalogRepo.CreateQuestion(ctx, catalog.Question{
			Text: fld.Name, Slug: "quality-" + fld.Name, IsMultichoice: fld.Multi, IsActive: true,
		})
		if err != nil {
			t.Fatalf("CreateQuestion() failed: %v", err)
		}
		if err = cli.catalogRepo.AddQuestionToSet(ctx, set.ID, q.ID); err != nil {
			t.Fatalf("AddQuestionToSet() failed: %v", err)
		}
		for _, choice := range fld.Choices {
			if _, err = cli.catalogRepo.CreateAnswer(ctx, catalog.Answer{
				Text: choice, Slug: core.Slugify(choice), QuestionID: q.ID, IsActive: true,
			}); err != nil {
				t.Fatalf("CreateAnswer() failed: %v", err)
			}
		}
	}
}

func Test_commandLine_migrateMetrics(t *testing.T) {
	cli, _ := setup(t)
	seedLegacyQuality(t, cli)

	ctx := context.Background()
	if _, err := cli.metricsRepo.CreateQuality(ctx, []metrics.Quality{{
		EventID: 1, UserID: 1,
		UsedResourcesBefore: "Never - unaware of them",
		UsedResourcesFuture: "Yes",
		RecommendCourse:     "Yes",
		CourseRating:        "Very Good",
		Balance:             "About right",
		EmailContact:        "No",
		Created:             time.Now().UTC(),
	}}); err != nil {
		t.Fatalf("CreateQuality() failed: %v", err)
	}

	if err := cli.run([]string{"admin", "migratemetrics", "-model", "quality", "-set", "legacy-quality"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	set, err := cli.catalogRepo.GetQuestionSetBySlug(ctx, "legacy-quality")
	if err != nil {
		t.Fatalf("GetQuestionSetBySlug() failed: %v", err)
	}
	stored, err := cli.responseRepo.QueryResponseSetsBySet(ctx, set.ID)
	if err != nil {
		t.Fatalf("QueryResponseSetsBySet() failed: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Responses) != 6 {
		t.Errorf("stored = %+v, want 1 set with 6 responses", stored)
	}
}

func Test_commandLine_migrateMetrics_unknownModel(t *testing.T) {
	cli, _ := setup(t)
	if err := cli.run([]string{"admin", "migratemetrics", "-model", "lol", "-set", "legacy-quality"}); err == nil {
		t.Fatal("cli.run() expected error, got nil")
	}
}
