package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eventwall/eventwall/internal/metrics"
	"github.com/eventwall/eventwall/internal/model"
	"github.com/eventwall/eventwall/internal/repository"
)

// Analytics service errors.
var (
	ErrInvalidInteractionType = errors.New("invalid interaction type")
	ErrInvalidAggregateScope  = errors.New("invalid aggregate scope")
)

const (
	// AggregateScopeAll requests every report section at once.
	AggregateScopeAll = "all"

	// allTimePeriodDays is the sentinel above which a period query applies
	// no lower time bound. Inherited behavior: "365 days" has always meant
	// all time here, not a literal 365-day window.
	allTimePeriodDays = 365

	// defaultPeriodDays is used when no period is given.
	defaultPeriodDays = 30

	// timelineDays is the span of the recent-activity timeline.
	timelineDays = 7
)

// InteractionStore is the persistence surface the analytics service needs.
type InteractionStore interface {
	InsertInteraction(ctx context.Context, in *model.Interaction) error
	CountRecentMatches(ctx context.Context, ipHash, uaHash string, typ model.InteractionType, targetKey *string, since time.Time) (int64, error)
	ListInteractions(ctx context.Context, filter repository.InteractionFilter) ([]*model.Interaction, error)
}

// AnalyticsService classifies incoming interactions as unique or repeat,
// persists them, and computes aggregate reports.
type AnalyticsService struct {
	store   InteractionStore
	salt    string
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. The salt is a fixed
// process-wide value; rotating it orphans historical dedup state.
func NewAnalyticsService(store InteractionStore, salt string, recorder metrics.Recorder) *AnalyticsService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AnalyticsService{
		store:   store,
		salt:    salt,
		metrics: recorder,
		now:     time.Now,
	}
}

// HashIdentity applies the salted one-way hash independently to the raw IP
// and User-Agent strings. Deterministic for a fixed salt; raw values are
// never persisted.
func (s *AnalyticsService) HashIdentity(rawIP, rawUserAgent string) (ipHash, uaHash string) {
	return saltedHash(rawIP, s.salt), saltedHash(rawUserAgent, s.salt)
}

// IsUniqueVisit reports whether no record with the same identity hashes,
// type and target key exists within the trailing 24-hour window ending at
// now. This is a rolling window, not calendar-day bucketing.
func (s *AnalyticsService) IsUniqueVisit(ctx context.Context, ipHash, uaHash string, typ model.InteractionType, targetKey *string, now time.Time) (bool, error) {
	count, err := s.store.CountRecentMatches(ctx, ipHash, uaHash, typ, targetKey, now.Add(-model.DedupWindow))
	if err != nil {
		return false, fmt.Errorf("failed to check dedup window: %w", err)
	}
	return count == 0, nil
}

// RecordInteractionInput defines an incoming interaction signal.
type RecordInteractionInput struct {
	Type       string
	EventID    string
	ButtonName string
	RawIP      string
	RawUA      string
}

// RecordInteraction validates the signal, computes the identity hashes and
// the uniqueness bit, and appends one immutable record. The computed
// uniqueness is frozen into the record and returned for caller feedback.
func (s *AnalyticsService) RecordInteraction(ctx context.Context, input RecordInteractionInput) (*model.Interaction, error) {
	typ := model.InteractionType(input.Type)
	if !typ.IsValid() {
		return nil, ErrInvalidInteractionType
	}

	// event_id takes precedence over button_name when both are present
	var targetKey *string
	switch {
	case input.EventID != "":
		targetKey = &input.EventID
	case input.ButtonName != "":
		targetKey = &input.ButtonName
	}

	ipHash, uaHash := s.HashIdentity(input.RawIP, input.RawUA)
	now := s.now().UTC()

	unique, err := s.IsUniqueVisit(ctx, ipHash, uaHash, typ, targetKey, now)
	if err != nil {
		s.metrics.IncInteractionRecorded("dropped")
		return nil, err
	}

	in := &model.Interaction{
		ID:        ulid.Make().String(),
		Type:      typ,
		TargetKey: targetKey,
		IPHash:    ipHash,
		UAHash:    uaHash,
		IsUnique:  unique,
		CreatedAt: now,
	}

	if err := s.store.InsertInteraction(ctx, in); err != nil {
		s.metrics.IncInteractionRecorded("dropped")
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	if unique {
		s.metrics.IncInteractionRecorded("unique")
	} else {
		s.metrics.IncInteractionRecorded("repeat")
	}

	return in, nil
}

// AggregateInput defines an aggregate report query.
type AggregateInput struct {
	// Scope is "all" (or empty) for every section, or a single
	// interaction type.
	Scope string
	// TargetKey scopes the event_click section to one event.
	TargetKey string
	// PeriodDays bounds the report to the trailing N days. Values >= 365
	// mean all time; zero or negative fall back to the 30-day default.
	PeriodDays int
}

// Aggregate computes the report for the requested scope from the stored
// records. Reads are idempotent; the stored is_unique bits are trusted
// rather than recomputed.
func (s *AnalyticsService) Aggregate(ctx context.Context, input AggregateInput) (*model.AnalyticsReport, error) {
	scope := input.Scope
	if scope == "" {
		scope = AggregateScopeAll
	}
	if scope != AggregateScopeAll && !model.InteractionType(scope).IsValid() {
		return nil, ErrInvalidAggregateScope
	}

	periodDays := input.PeriodDays
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}

	now := s.now().UTC()

	// period >= 365 is the all-time sentinel: no lower bound at all
	var since *time.Time
	if periodDays < allTimePeriodDays {
		bound := now.Add(-time.Duration(periodDays) * 24 * time.Hour)
		since = &bound
	}

	report := &model.AnalyticsReport{GeneratedAt: now}

	if scope == AggregateScopeAll || scope == string(model.InteractionPageView) {
		typ := model.InteractionPageView
		rows, err := s.store.ListInteractions(ctx, repository.InteractionFilter{Type: &typ, Since: since})
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate page views: %w", err)
		}
		counts := countInteractions(rows)
		report.PageViews = &counts
	}

	if scope == AggregateScopeAll || scope == string(model.InteractionEventClick) {
		typ := model.InteractionEventClick
		if input.TargetKey != "" {
			rows, err := s.store.ListInteractions(ctx, repository.InteractionFilter{Type: &typ, TargetKey: &input.TargetKey, Since: since})
			if err != nil {
				return nil, fmt.Errorf("failed to aggregate event clicks: %w", err)
			}
			counts := countInteractions(rows)
			report.EventClicks = &counts
		} else {
			rows, err := s.store.ListInteractions(ctx, repository.InteractionFilter{Type: &typ, RequireTarget: true, Since: since})
			if err != nil {
				return nil, fmt.Errorf("failed to aggregate event clicks: %w", err)
			}
			report.EventClicksByTarget = groupByTarget(rows)
		}
	}

	if scope == AggregateScopeAll || scope == string(model.InteractionButtonClick) {
		typ := model.InteractionButtonClick
		rows, err := s.store.ListInteractions(ctx, repository.InteractionFilter{Type: &typ, RequireTarget: true, Since: since})
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate button clicks: %w", err)
		}
		report.ButtonClicks = groupByTarget(rows)
	}

	if scope == AggregateScopeAll {
		// Timeline always covers the trailing 7 days regardless of period
		bound := now.Add(-timelineDays * 24 * time.Hour)
		rows, err := s.store.ListInteractions(ctx, repository.InteractionFilter{Since: &bound})
		if err != nil {
			return nil, fmt.Errorf("failed to build timeline: %w", err)
		}
		report.Timeline = buildTimeline(rows)
	}

	return report, nil
}

// saltedHash returns the hex SHA-256 of raw with the salt appended.
func saltedHash(raw, salt string) string {
	sum := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(sum[:])
}

// countInteractions tallies the total and the sum of stored is_unique bits.
func countInteractions(rows []*model.Interaction) model.InteractionCounts {
	var counts model.InteractionCounts
	for _, row := range rows {
		counts.Total++
		if row.IsUnique {
			counts.Unique++
		}
	}
	return counts
}

// groupByTarget buckets rows by target key, sorted descending by total.
// Ties break on target key ascending so the output is deterministic.
func groupByTarget(rows []*model.Interaction) []model.TargetCounts {
	buckets := make(map[string]*model.TargetCounts)
	for _, row := range rows {
		if row.TargetKey == nil {
			continue
		}
		bucket, ok := buckets[*row.TargetKey]
		if !ok {
			bucket = &model.TargetCounts{TargetKey: *row.TargetKey}
			buckets[*row.TargetKey] = bucket
		}
		bucket.Total++
		if row.IsUnique {
			bucket.Unique++
		}
	}

	grouped := make([]model.TargetCounts, 0, len(buckets))
	for _, bucket := range buckets {
		grouped = append(grouped, *bucket)
	}

	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].Total != grouped[j].Total {
			return grouped[i].Total > grouped[j].Total
		}
		return grouped[i].TargetKey < grouped[j].TargetKey
	})

	return grouped
}

// buildTimeline buckets rows by (UTC calendar day, type), most recent day
// first, types in ascending order within a day.
func buildTimeline(rows []*model.Interaction) []model.TimelineBucket {
	type key struct {
		date string
		typ  model.InteractionType
	}

	buckets := make(map[key]*model.TimelineBucket)
	for _, row := range rows {
		k := key{date: row.CreatedAt.UTC().Format(model.DateLayout), typ: row.Type}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &model.TimelineBucket{Date: k.date, Type: k.typ}
			buckets[k] = bucket
		}
		bucket.Total++
		if row.IsUnique {
			bucket.Unique++
		}
	}

	timeline := make([]model.TimelineBucket, 0, len(buckets))
	for _, bucket := range buckets {
		timeline = append(timeline, *bucket)
	}

	sort.Slice(timeline, func(i, j int) bool {
		if timeline[i].Date != timeline[j].Date {
			return timeline[i].Date > timeline[j].Date
		}
		return timeline[i].Type < timeline[j].Type
	})

	return timeline
}
