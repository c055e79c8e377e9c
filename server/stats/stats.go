// Package stats collects statistics over the stored documents and their
// annotations.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hrygo/timenorm/store"
)

// Stats represents corpus statistics.
type Stats struct {
	// Document stats
	TotalDocuments     int64 `json:"total_documents"`
	DocumentsLastWeek  int64 `json:"documents_last_week"`
	DocumentsLastMonth int64 `json:"documents_last_month"`

	// Annotation stats
	TotalAnnotations int64            `json:"total_annotations"`
	Grounded         int64            `json:"grounded"`
	Unresolved       int64            `json:"unresolved"`
	ByType           map[string]int64 `json:"by_type"`
	ByMod            map[string]int64 `json:"by_mod"`

	// Activity stats
	ActiveDays       int64     `json:"active_days"` // Days with stored documents in the last 30 days
	LastActivityTime time.Time `json:"last_activity_time"`

	LastUpdated time.Time `json:"last_updated"`
}

// Collector collects and caches statistics.
type Collector struct {
	store    *store.Store
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	stats    *Stats
	tickStop chan struct{}
	stopOnce sync.Once
}

// NewCollector creates a collector refreshing every interval; zero means
// hourly.
func NewCollector(st *store.Store, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Collector{
		store:    st,
		interval: interval,
		now:      time.Now,
		stats:    &Stats{ByType: map[string]int64{}, ByMod: map[string]int64{}},
		tickStop: make(chan struct{}),
	}
}

// Start collects once and then periodically until ctx ends or Stop is called.
func (c *Collector) Start(ctx context.Context) {
	// Initial collection
	_ = c.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.Refresh(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the periodic collection.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.tickStop) })
}

// GetStats returns a copy of the current statistics.
func (c *Collector) GetStats() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := *c.stats
	s.ByType = copyCounts(c.stats.ByType)
	s.ByMod = copyCounts(c.stats.ByMod)
	return &s
}

// Refresh recomputes the statistics from the store.
func (c *Collector) Refresh(ctx context.Context) error {
	docs, err := c.store.ListDocuments(ctx, &store.FindDocument{})
	if err != nil {
		return err
	}
	annotations, err := c.store.ListAnnotations(ctx, &store.FindAnnotation{})
	if err != nil {
		return err
	}

	now := c.now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	s := &Stats{
		TotalDocuments:   int64(len(docs)),
		TotalAnnotations: int64(len(annotations)),
		ByType:           map[string]int64{},
		ByMod:            map[string]int64{},
		LastUpdated:      now,
	}
	activeDays := make(map[string]bool)
	for _, doc := range docs {
		created := time.Unix(doc.CreatedTs, 0)
		if !created.Before(weekAgo) {
			s.DocumentsLastWeek++
		}
		if !created.Before(monthAgo) {
			s.DocumentsLastMonth++
			activeDays[created.UTC().Format("2006-01-02")] = true
		}
		if created.After(s.LastActivityTime) {
			s.LastActivityTime = created
		}
	}
	s.ActiveDays = int64(len(activeDays))

	for _, a := range annotations {
		if a.Error != "" {
			s.Unresolved++
			continue
		}
		if a.Grounded {
			s.Grounded++
		}
		if a.Type != "" {
			s.ByType[a.Type]++
		}
		if a.Mod != "" {
			s.ByMod[a.Mod]++
		}
	}

	c.mu.Lock()
	c.stats = s
	c.mu.Unlock()
	return nil
}

// GetSummary returns a human-readable summary.
func (s *Stats) GetSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statistics (updated %s)\n\n", s.LastUpdated.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Documents\n  total: %d\n  last week: %d\n  last month: %d\n\n",
		s.TotalDocuments, s.DocumentsLastWeek, s.DocumentsLastMonth)
	fmt.Fprintf(&b, "Annotations\n  total: %d\n  grounded: %d\n  unresolved: %d\n",
		s.TotalAnnotations, s.Grounded, s.Unresolved)
	for _, t := range sortedKeys(s.ByType) {
		fmt.Fprintf(&b, "  %s: %d\n", t, s.ByType[t])
	}
	fmt.Fprintf(&b, "\nActivity\n  active days (30d): %d\n  last document: %s",
		s.ActiveDays, formatLastActivity(s.LastActivityTime, s.LastUpdated))
	return b.String()
}

func formatLastActivity(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	duration := now.Sub(t)
	if duration < time.Hour {
		return "just now"
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	}
	if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	}
	return t.Format("2006-01-02")
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
