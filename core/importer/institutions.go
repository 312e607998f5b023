package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/event"
)

// Directory is the external lookup-by-identifier collaborator resolving
// institution identifiers to {name, country}. Only the import pipeline
// consumes it, never the migration engine.
type Directory interface {
	// Lookup returns event.ErrInstitutionNotFound for unknown identifiers.
	Lookup(ctx context.Context, identifier string) (event.Institution, error)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPDirectory queries a ROR-style organisation registry.
type HTTPDirectory struct {
	BaseURL string
	Client  *http.Client
}

var _ Directory = (*HTTPDirectory)(nil)

func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *HTTPDirectory) Lookup(ctx context.Context, identifier string) (event.Institution, error) {
	endpoint := d.BaseURL + "/" + url.PathEscape(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return event.Institution{}, errors.Wrap(err, "building directory request")
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return event.Institution{}, errors.Wrapf(err, "querying directory for %q", identifier)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return event.Institution{}, event.ErrInstitutionNotFound
	default:
		return event.Institution{}, fmt.Errorf("directory returned %s for %q", resp.Status, identifier)
	}

	var body struct {
		Name    string `json:"name"`
		Country struct {
			Name string `json:"country_name"`
		} `json:"country"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return event.Institution{}, errors.Wrapf(err, "decoding directory response for %q", identifier)
	}
	return event.Institution{
		Name:       body.Name,
		Country:    body.Country.Name,
		Identifier: identifier,
	}, nil
}

// directoryCache memoizes institution resolution for one import run so each
// identifier is fetched at most once per batch. It is scoped to a single
// worker and needs no lock. Lookup failures are tolerated: the institution is
// skipped (nil), never fatal for the row.
type directoryCache struct {
	dir   Directory
	repo  event.InstitutionRepository
	log   core.Logger
	cache map[string]*event.Institution
}

func newDirectoryCache(dir Directory, repo event.InstitutionRepository, log core.Logger) *directoryCache {
	return &directoryCache{dir: dir, repo: repo, log: log, cache: make(map[string]*event.Institution)}
}

func (c *directoryCache) resolve(ctx context.Context, identifier string) *event.Institution {
	identifier = core.CleanString(identifier)
	if inst, ok := c.cache[identifier]; ok {
		return inst
	}

	if inst, err := c.repo.GetInstitutionByIdentifier(ctx, identifier); err == nil {
		c.cache[identifier] = &inst
		return &inst
	} else if !errors.Is(err, event.ErrInstitutionNotFound) {
		c.log.Warn(fmt.Sprintf("institution %q: repository lookup failed, skipping: %v", identifier, err))
		c.cache[identifier] = nil
		return nil
	}

	if c.dir == nil {
		c.cache[identifier] = nil
		return nil
	}
	fetched, err := c.dir.Lookup(ctx, identifier)
	if err != nil {
		c.log.Warn(fmt.Sprintf("institution %q: directory lookup failed, skipping: %v", identifier, err))
		c.cache[identifier] = nil
		return nil
	}
	created, err := c.repo.CreateInstitution(ctx, fetched)
	if err != nil {
		c.log.Warn(fmt.Sprintf("institution %q: create failed, skipping: %v", identifier, err))
		c.cache[identifier] = nil
		return nil
	}
	c.cache[identifier] = &created
	return &created
}
