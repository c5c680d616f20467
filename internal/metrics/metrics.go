// Package metrics exposes Prometheus collectors for the planner.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services depend on; Nop satisfies it when metrics are off.
type Recorder interface {
	RecordGeneration(outcome string, duration time.Duration)
	RecordCacheLookup(result string)
	RecordToggle(to string)
	RecordBatchRun(outcome string)
	RecordPostsScheduled(count int)
}

type Collector struct {
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	toggles            *prometheus.CounterVec
	batchRuns          *prometheus.CounterVec
	postsScheduled     prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instaplanner_generations_total",
			Help: "Strategy generations by outcome (success or failure stage).",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "instaplanner_generation_duration_seconds",
			Help:    "Wall time of strategy generation calls.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instaplanner_analysis_cache_lookups_total",
			Help: "Analysis cache lookups by result.",
		}, []string{"result"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instaplanner_post_toggles_total",
			Help: "Single-post status toggles by target status.",
		}, []string{"to"}),
		batchRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instaplanner_batch_runs_total",
			Help: "Batch schedule runs by outcome.",
		}, []string{"outcome"}),
		postsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "instaplanner_posts_batch_scheduled_total",
			Help: "Posts moved from planned to scheduled by batch runs.",
		}),
	}

	reg.MustRegister(
		c.generations,
		c.generationDuration,
		c.cacheLookups,
		c.toggles,
		c.batchRuns,
		c.postsScheduled,
	)

	return c
}

func (c *Collector) RecordGeneration(outcome string, duration time.Duration) {
	c.generations.WithLabelValues(outcome).Inc()
	c.generationDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordCacheLookup(result string) {
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) RecordToggle(to string) {
	c.toggles.WithLabelValues(to).Inc()
}

func (c *Collector) RecordBatchRun(outcome string) {
	c.batchRuns.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordPostsScheduled(count int) {
	c.postsScheduled.Add(float64(count))
}

type Nop struct{}

func (Nop) RecordGeneration(string, time.Duration) {}
func (Nop) RecordCacheLookup(string)               {}
func (Nop) RecordToggle(string)                    {}
func (Nop) RecordBatchRun(string)                  {}
func (Nop) RecordPostsScheduled(int)               {}

// Handler serves /metrics for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
