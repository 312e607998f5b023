package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/event"
)

// ErrPermission marks cross-node writes rejected in the legacy context. It is
// deliberately distinct from a not-found error so uploaders can tell the two
// apart.
var ErrPermission = errors.New("permission denied")

// Context resolves user identity, owning node and timestamps for one import
// run. The current-format context reads them from each row; the legacy-format
// context fixes them once for the whole upload batch.
type Context interface {
	ResolveUser(ctx context.Context, row Row) (event.User, error)
	ResolveNode(ctx context.Context, row Row) (event.Node, error)
	Timestamp(row Row) (time.Time, error)
	// AssertCanWrite checks that the referenced event may be written to in
	// this context.
	AssertCanWrite(evt event.Event) error
}

// CurrentContext: self-describing rows, used for bulk/administrative loads.
// Unknown users or nodes are fatal for the row.
type CurrentContext struct {
	Users event.UserRepository
	Nodes event.NodeRepository
}

var _ Context = (*CurrentContext)(nil)

func (c *CurrentContext) ResolveUser(ctx context.Context, row Row) (event.User, error) {
	username := row.Get("user")
	if username == "" {
		return event.User{}, core.NewValidationError(ErrInvalidRow,
			core.FieldError{Field: "user", Error: "this field is required"})
	}
	usr, err := c.Users.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		if errors.Is(err, event.ErrUserNotFound) {
			return event.User{}, core.NewValidationError(err,
				core.FieldError{Field: "user", Error: fmt.Sprintf("unknown user %q", username)})
		}
		return event.User{}, err
	}
	return usr, nil
}

func (c *CurrentContext) ResolveNode(ctx context.Context, row Row) (event.Node, error) {
	names := core.SplitList(row["node"])
	if len(names) == 0 {
		return event.Node{}, core.NewValidationError(ErrInvalidRow,
			core.FieldError{Field: "node", Error: "this field is required"})
	}
	// the first node listed owns the record
	node, err := c.Nodes.GetNodeByName(ctx, names[0])
	if err != nil {
		if errors.Is(err, event.ErrNodeNotFound) {
			return event.Node{}, core.NewValidationError(err,
				core.FieldError{Field: "node", Error: fmt.Sprintf("unknown node %q", names[0])})
		}
		return event.Node{}, err
	}
	return node, nil
}

func (c *CurrentContext) Timestamp(row Row) (time.Time, error) {
	raw := row.Get("created")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, core.NewValidationError(ErrInvalidRow,
			core.FieldError{Field: "created", Error: fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", raw)})
	}
	return t.UTC(), nil
}

// AssertCanWrite always passes: current-format loads are administrative.
func (c *CurrentContext) AssertCanWrite(event.Event) error { return nil }

// LegacyContext: identity supplied once per upload batch (the authenticated
// uploader). Rows referencing events of other nodes are permission failures.
type LegacyContext struct {
	Uploader event.User
	Node     event.Node
	Now      time.Time
}

var _ Context = (*LegacyContext)(nil)

func (c *LegacyContext) ResolveUser(context.Context, Row) (event.User, error) {
	return c.Uploader, nil
}

func (c *LegacyContext) ResolveNode(context.Context, Row) (event.Node, error) {
	return c.Node, nil
}

func (c *LegacyContext) Timestamp(Row) (time.Time, error) {
	if c.Now.IsZero() {
		return time.Now().UTC(), nil
	}
	return c.Now, nil
}

func (c *LegacyContext) AssertCanWrite(evt event.Event) error {
	if evt.NodeID != c.Node.ID {
		return core.NewValidationError(ErrPermission, core.FieldError{
			Field: "event",
			Error: fmt.Sprintf("event %q belongs to another node", evt.Code),
		})
	}
	return nil
}
