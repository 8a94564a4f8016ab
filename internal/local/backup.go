package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/pkg/entity"
)

const exportVersion = "1.0"

// Export is the backup envelope. The blobs are embedded verbatim.
type Export struct {
	Version       any             `json:"version"`
	ExportedAt    any             `json:"exportedAt"`
	MainStore     json.RawMessage `json:"mainStore"`
	AnnualReviews json.RawMessage `json:"annualReviews"`
}

// Export writes both blobs and returns them wrapped in a backup envelope.
func (c *Container) Export(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		if err := c.persist(MainKey); err != nil {
			return nil, err
		}
		if err := c.persist(AnnualKey); err != nil {
			return nil, err
		}
	}
	env := Export{
		Version:    exportVersion,
		ExportedAt: c.now().UTC().Format(time.RFC3339Nano),
	}
	var err error
	if env.MainStore, err = c.rawBlob(MainKey); err != nil {
		return nil, err
	}
	if env.AnnualReviews, err = c.rawBlob(AnnualKey); err != nil {
		return nil, err
	}
	out, err := sonic.ConfigStd.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return out, nil
}

func (c *Container) rawBlob(key string) (json.RawMessage, error) {
	raw, ok, err := c.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return json.RawMessage("null"), nil
	}
	return raw, nil
}

// Import replaces the stored blobs with those of a backup envelope and
// hydrates the container from them. The envelope and both blobs are checked
// before anything is written. A failed write or hydrate puts the previous
// blobs back.
func (c *Container) Import(ctx context.Context, backup []byte) error {
	var env Export
	if err := sonic.Unmarshal(backup, &env); err != nil {
		return fmt.Errorf("%w: %s", errorvalues.ErrMalformedImport, err.Error())
	}
	if !truthy(env.Version) || !truthy(env.ExportedAt) {
		return errorvalues.ErrMalformedImport
	}
	blobs, err := importBlobs(env)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	previous := make([]keyedBlob, 0, len(blobs))
	for _, b := range blobs {
		raw, ok, err := c.store.Get(b.key)
		if err != nil {
			return fmt.Errorf("loading %s: %w", b.key, err)
		}
		previous = append(previous, keyedBlob{key: b.key, raw: raw, present: ok})
	}
	for i, b := range blobs {
		if err := c.store.Set(b.key, b.raw); err != nil {
			c.restore(previous[:i])
			return fmt.Errorf("restoring %s: %w", b.key, err)
		}
	}
	if err := c.hydrate(); err != nil {
		c.restore(previous)
		return err
	}
	c.logger.Info("backup imported", slog.Any("exported_at", env.ExportedAt))
	return nil
}

type keyedBlob struct {
	key     string
	raw     []byte
	present bool
}

// importBlobs returns the non-null blobs of env in write order, each
// checked to decode into its stored shape.
func importBlobs(env Export) ([]keyedBlob, error) {
	var out []keyedBlob
	if !isNull(env.MainStore) {
		var stored mainBlob
		if err := sonic.Unmarshal(env.MainStore, &stored); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", errorvalues.ErrMalformedImport, MainKey, err.Error())
		}
		out = append(out, keyedBlob{key: MainKey, raw: env.MainStore})
	}
	if !isNull(env.AnnualReviews) {
		byYear := map[string]entity.AnnualEntry{}
		if err := sonic.Unmarshal(env.AnnualReviews, &byYear); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", errorvalues.ErrMalformedImport, AnnualKey, err.Error())
		}
		out = append(out, keyedBlob{key: AnnualKey, raw: env.AnnualReviews})
	}
	return out, nil
}

// restore writes back blobs captured before an import. Failures are logged,
// the import error is what the caller sees.
func (c *Container) restore(previous []keyedBlob) {
	for _, b := range previous {
		var err error
		if b.present {
			err = c.store.Set(b.key, b.raw)
		} else {
			err = c.store.Delete(b.key)
		}
		if err != nil {
			c.logger.Error("restoring blob after failed import",
				slog.String("key", b.key), slog.String("error", err.Error()))
		}
	}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// truthy follows the loose truth rules of the exporting browser app.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case json.Number:
		return x != "" && x != "0"
	}
	return true
}

type Category string

const (
	CategoryDaily      Category = "daily"
	CategoryWeekly     Category = "weekly"
	CategoryQuarterly  Category = "quarterly"
	CategoryAnnual     Category = "annual"
	CategoryInterviews Category = "interviews"
)

func Categories() []Category {
	return []Category{CategoryDaily, CategoryWeekly, CategoryQuarterly, CategoryAnnual, CategoryInterviews}
}

// Clear drops every record of one category.
func (c *Container) Clear(ctx context.Context, category Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLoaded(); err != nil {
		return err
	}
	switch category {
	case CategoryDaily:
		c.data.DailyCheckIns = []entity.DailyEntry{}
	case CategoryWeekly:
		c.data.WeeklyReviews = []entity.WeeklyEntry{}
	case CategoryQuarterly:
		c.data.QuarterlyReviews = []entity.QuarterlyEntry{}
	case CategoryInterviews:
		c.data.InterviewResponses = []entity.InterviewResponse{}
	case CategoryAnnual:
		c.data.annual = []entity.AnnualEntry{}
		return c.store.Delete(AnnualKey)
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return c.persist(MainKey)
}

// ClearAll deletes both blobs and resets the container to defaults.
func (c *Container) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(MainKey); err != nil {
		return err
	}
	if err := c.store.Delete(AnnualKey); err != nil {
		return err
	}
	c.data = c.defaults()
	c.loaded = true
	return nil
}
