// Package migrate rewrites legacy fixed-column metrics records as generic
// response sets against a target question set.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/response"
)

type Engine struct {
	responses response.Repository
	aliases   *alias.Resolver
	log       core.Logger
}

func NewEngine(responses response.Repository, aliases *alias.Resolver, log core.Logger) *Engine {
	return &Engine{responses: responses, aliases: aliases, log: log}
}

// Result summarizes one migration run.
type Result struct {
	Model        string
	ResponseSets int
	Responses    int
	Skipped      int // records with no selected value at all
}

// Migrate runs the compatibility pre-flight, then converts every record into a
// response set. Any record failing validation aborts the run with nothing
// persisted: migrations are operator-triggered, re-runnable batch jobs, and a
// partial migration would be harder to recover from than a failed one.
//
// Re-running over already-migrated records creates duplicates; operators clear
// previously migrated response sets first (not enforced here, only warned).
func (e *Engine) Migrate(ctx context.Context, set catalog.QuestionSet, spec metrics.ModelSpec, records []metrics.Record) (Result, error) {
	res := Result{Model: spec.Model}

	if err := CheckCompatibility(set, spec); err != nil {
		return res, err
	}

	if existing, err := e.responses.QueryResponseSetsBySet(ctx, set.ID); err == nil && len(existing) > 0 {
		e.log.Warn(fmt.Sprintf(
			"question set %q already holds %d response sets; re-running a migration duplicates them",
			set.Slug, len(existing),
		))
	}

	validator := response.BuildValidator(set, e.aliases)
	now := time.Now().UTC()
	sets := make([]response.ResponseSet, 0, len(records))

	for i, rec := range records {
		// answered-only mode: legacy records routinely leave questions blank
		selected, err := validator.ValidateAnswered(BuildPayload(rec))
		if err != nil {
			return res, errors.Wrapf(err, "%s record %d (event %d)", spec.Model, i, rec.RecordEventID())
		}
		if len(selected) == 0 {
			res.Skipped++
			continue
		}
		rs := response.NewResponseSet(set, rec.RecordEventID(), rec.RecordUserID(), selected, now)
		sets = append(sets, rs)
	}

	created, err := e.responses.CreateResponseSets(ctx, sets)
	if err != nil {
		return res, errors.Wrap(err, "persisting migrated response sets")
	}
	res.ResponseSets = len(created)
	for _, rs := range created {
		res.Responses += len(rs.Responses)
	}
	return res, nil
}

// BuildPayload flattens a legacy record into a validator payload: every field
// value slugified (array fields element-wise), keyed by "{model}-{field}".
// Alias resolution happens inside the validator. Blank values are dropped.
func BuildPayload(rec metrics.Record) response.Payload {
	payload := make(response.Payload)
	for _, fld := range rec.Fields() {
		vals := make([]string, 0, len(fld.Values))
		for _, v := range fld.Values {
			if core.CleanString(v) != "" {
				vals = append(vals, core.Slugify(v))
			}
		}
		if len(vals) == 0 {
			continue
		}
		slug := rec.Model() + "-" + fld.Name
		if fld.Multi {
			payload[slug] = vals
		} else {
			payload[slug] = vals[0]
		}
	}
	return payload
}
