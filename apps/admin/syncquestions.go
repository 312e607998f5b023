package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core/catalog"
)

// fetchSyncDocument reads the catalog feed from a local file or, when no file
// is given, the configured feed URL.
func (cli *commandLine) fetchSyncDocument(file string) (catalog.SyncDocument, error) {
	var reader io.ReadCloser
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return catalog.SyncDocument{}, errors.Wrapf(err, "opening %s", file)
		}
		reader = f
	} else {
		if cli.conf.QuestionSyncURL == "" {
			return catalog.SyncDocument{}, errors.New("no sync file given and no feed URL configured")
		}
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(cli.conf.QuestionSyncURL)
		if err != nil {
			return catalog.SyncDocument{}, errors.Wrap(err, "fetching sync document")
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return catalog.SyncDocument{}, errors.Errorf("feed returned %s", resp.Status)
		}
		reader = resp.Body
	}
	defer func() { _ = reader.Close() }()
	return catalog.ParseSyncDocument(reader)
}

func (cli *commandLine) syncQuestions(setSlug, file string) error {
	doc, err := cli.fetchSyncDocument(file)
	if err != nil {
		return err
	}

	svc := catalog.NewService(cli.catalogRepo, cli.log)
	res, err := svc.SyncQuestionSet(context.Background(), setSlug, doc)
	if err != nil {
		return err
	}
	fmt.Printf("questions: %d created, %d updated, %d deactivated\n",
		res.QuestionsCreated, res.QuestionsUpdated, res.QuestionsDeactivated)
	fmt.Printf("answers: %d created, %d updated, %d deactivated\n",
		res.AnswersCreated, res.AnswersUpdated, res.AnswersDeactivated)
	return nil
}
