// Package importer converts external CSV row dictionaries into domain
// entities, with strict per-row validation and all-or-nothing persistence per
// upload batch.
package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/event"
	"github.com/elixirhub/metricsdb/core/metrics"
)

// Data source names; they double as Result.Source values.
const (
	SourceEvents      = "events"
	SourceQuality     = "quality"
	SourceImpact      = "impact"
	SourceDemographic = "demographic"
)

// RowError is one error of one field of one row.
type RowError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
}

// Result is the structured outcome of one data-source batch. Row errors never
// raise past the batch boundary individually; a failed batch persists nothing.
type Result struct {
	BatchID uuid.UUID  `json:"batch_id"`
	Source  string     `json:"source"`
	Created int        `json:"created"`
	Errors  []RowError `json:"errors"`
}

func (r Result) Failed() bool { return len(r.Errors) > 0 }

// collect flattens err into per-field row errors.
func (r *Result) collect(rowIdx int, err error) {
	if vErr, ok := core.AsValidationError(err); ok && len(vErr.Fields) > 0 {
		for _, fld := range vErr.Fields {
			r.Errors = append(r.Errors, RowError{Row: rowIdx, Field: fld.Field, Error: fld.Error})
		}
		return
	}
	r.Errors = append(r.Errors, RowError{Row: rowIdx, Field: "__all__", Error: err.Error()})
}

type Pipeline struct {
	events       event.Repository
	nodes        event.NodeRepository
	users        event.UserRepository
	institutions event.InstitutionRepository
	metrics      metrics.Repository
	directory    Directory
	aliases      *alias.Resolver
	log          core.Logger
}

func NewPipeline(
	events event.Repository,
	nodes event.NodeRepository,
	users event.UserRepository,
	institutions event.InstitutionRepository,
	metricsRepo metrics.Repository,
	directory Directory,
	aliases *alias.Resolver,
	log core.Logger,
) *Pipeline {
	return &Pipeline{
		events:       events,
		nodes:        nodes,
		users:        users,
		institutions: institutions,
		metrics:      metricsRepo,
		directory:    directory,
		aliases:      aliases,
		log:          log,
	}
}

// Sources bundles the row sets of one upload submission.
type Sources struct {
	Events      []Row
	Quality     []Row
	Impact      []Row
	Demographic []Row
}

// ImportAll loads events first (metrics rows reference them by code), then
// runs one worker per metrics source concurrently. Within a worker, rows are
// processed strictly in file order.
func (p *Pipeline) ImportAll(ctx context.Context, ictx Context, src Sources) []Result {
	results := make([]Result, 0, 4)
	if src.Events != nil {
		results = append(results, p.ImportEvents(ctx, ictx, src.Events))
	}

	var qualityRes, impactRes, demogRes *Result
	g, gctx := errgroup.WithContext(ctx)
	if src.Quality != nil {
		g.Go(func() error {
			res := p.ImportQuality(gctx, ictx, src.Quality)
			qualityRes = &res
			return nil
		})
	}
	if src.Impact != nil {
		g.Go(func() error {
			res := p.ImportImpact(gctx, ictx, src.Impact)
			impactRes = &res
			return nil
		})
	}
	if src.Demographic != nil {
		g.Go(func() error {
			res := p.ImportDemographic(gctx, ictx, src.Demographic)
			demogRes = &res
			return nil
		})
	}
	_ = g.Wait() // workers report through their Result, never an error

	for _, res := range []*Result{qualityRes, impactRes, demogRes} {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}

// ImportEvents converts event rows into Event entities. Rows are attempted
// independently and errors collected per row; if any row fails, nothing from
// the batch is persisted.
func (p *Pipeline) ImportEvents(ctx context.Context, ictx Context, rows []Row) Result {
	res := Result{BatchID: uuid.New(), Source: SourceEvents}
	cache := newDirectoryCache(p.directory, p.institutions, p.log)
	seenCodes := make(map[string]int, len(rows))
	batch := make([]event.Event, 0, len(rows))

	for i, row := range rows {
		parsed, err := ParseEventRow(p.aliases, row)
		if err != nil {
			res.collect(i, err)
			continue
		}

		if prev, dup := seenCodes[parsed.New.Code]; dup {
			res.collect(i, core.NewValidationError(ErrInvalidRow, core.FieldError{
				Field: "code", Error: fmt.Sprintf("duplicate of row %d", prev),
			}))
			continue
		}
		seenCodes[parsed.New.Code] = i
		if _, err = p.events.GetEventByCode(ctx, parsed.New.Code); err == nil {
			res.collect(i, core.NewValidationError(event.ErrCodeExists, core.FieldError{
				Field: "code", Error: event.ErrCodeExists.Error(),
			}))
			continue
		} else if !errors.Is(err, event.ErrNotFound) {
			res.collect(i, err)
			continue
		}

		usr, err := ictx.ResolveUser(ctx, row)
		if err != nil {
			res.collect(i, err)
			continue
		}
		node, err := ictx.ResolveNode(ctx, row)
		if err != nil {
			res.collect(i, err)
			continue
		}
		ts, err := ictx.Timestamp(row)
		if err != nil {
			res.collect(i, err)
			continue
		}

		evt := event.Event{
			Code:                parsed.New.Code,
			Title:               parsed.New.Title,
			NodeID:              node.ID,
			NodeNames:           parsed.New.NodeNames,
			DateStart:           parsed.New.DateStart,
			DateEnd:             parsed.New.DateEnd,
			Type:                parsed.New.Type,
			Funding:             parsed.New.Funding,
			TargetAudience:      parsed.New.TargetAudience,
			AdditionalPlatforms: parsed.New.AdditionalPlatforms,
			LocationCity:        parsed.New.LocationCity,
			LocationCountry:     parsed.New.LocationCountry,
			NumParticipants:     parsed.New.NumParticipants,
			NumTrainers:         parsed.New.NumTrainers,
			CreatedByID:         usr.ID,
			Created:             ts,
			Modified:            ts,
		}
		// tolerated failures: unknown institutions are skipped, not fatal
		for _, identifier := range parsed.Institutions {
			if inst := cache.resolve(ctx, identifier); inst != nil {
				evt.InstitutionIDs = append(evt.InstitutionIDs, inst.ID)
			}
		}
		batch = append(batch, evt)
	}

	if res.Failed() {
		return res
	}
	created, err := p.events.CreateEvents(ctx, batch)
	if err != nil {
		res.collect(-1, errors.Wrap(err, "persisting events"))
		return res
	}
	res.Created = len(created)
	return res
}

func (p *Pipeline) ImportQuality(ctx context.Context, ictx Context, rows []Row) Result {
	return p.importMetrics(ctx, ictx, rows, SourceQuality, ParseQualityRow)
}

func (p *Pipeline) ImportImpact(ctx context.Context, ictx Context, rows []Row) Result {
	return p.importMetrics(ctx, ictx, rows, SourceImpact, ParseImpactRow)
}

func (p *Pipeline) ImportDemographic(ctx context.Context, ictx Context, rows []Row) Result {
	return p.importMetrics(ctx, ictx, rows, SourceDemographic, ParseDemographicRow)
}

type parseFunc func(*alias.Resolver, Row) (ParsedMetrics, error)

func (p *Pipeline) importMetrics(ctx context.Context, ictx Context, rows []Row, source string, parse parseFunc) Result {
	res := Result{BatchID: uuid.New(), Source: source}
	var (
		qualities []metrics.Quality
		impacts   []metrics.Impact
		demogs    []metrics.Demographic
	)

	for i, row := range rows {
		parsed, err := parse(p.aliases, row)
		if err != nil {
			res.collect(i, err)
			continue
		}

		evt, err := p.events.GetEventByCode(ctx, parsed.EventCode)
		if err != nil {
			if errors.Is(err, event.ErrNotFound) {
				res.collect(i, core.NewValidationError(err, core.FieldError{
					Field: "event", Error: fmt.Sprintf("unknown event code %q", parsed.EventCode),
				}))
			} else {
				res.collect(i, err)
			}
			continue
		}
		if err = ictx.AssertCanWrite(evt); err != nil {
			res.collect(i, err)
			continue
		}
		usr, err := ictx.ResolveUser(ctx, row)
		if err != nil {
			res.collect(i, err)
			continue
		}
		ts, err := ictx.Timestamp(row)
		if err != nil {
			res.collect(i, err)
			continue
		}

		switch {
		case parsed.Quality != nil:
			rec := *parsed.Quality
			rec.EventID, rec.UserID, rec.Created = evt.ID, usr.ID, ts
			qualities = append(qualities, rec)
		case parsed.Impact != nil:
			rec := *parsed.Impact
			rec.EventID, rec.UserID, rec.Created = evt.ID, usr.ID, ts
			impacts = append(impacts, rec)
		case parsed.Demog != nil:
			rec := *parsed.Demog
			rec.EventID, rec.UserID, rec.Created = evt.ID, usr.ID, ts
			demogs = append(demogs, rec)
		}
	}

	if res.Failed() {
		return res
	}

	var persistErr error
	switch {
	case len(qualities) > 0:
		created, err := p.metrics.CreateQuality(ctx, qualities)
		res.Created, persistErr = len(created), err
	case len(impacts) > 0:
		created, err := p.metrics.CreateImpact(ctx, impacts)
		res.Created, persistErr = len(created), err
	case len(demogs) > 0:
		created, err := p.metrics.CreateDemographic(ctx, demogs)
		res.Created, persistErr = len(created), err
	}
	if persistErr != nil {
		res.Created = 0
		res.collect(-1, errors.Wrapf(persistErr, "persisting %s records", source))
	}
	return res
}
