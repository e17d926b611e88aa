// Package metrics exposes explorer statistics to Prometheus.
//
// Collector reports the contents and cache activity of every live workspace at
// scrape time; ToolMetrics counts and times MCP tool calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erraggy/oasexplorer/workspace"
)

const namespace = "oasexplorer"

// StatsFunc returns the statistics of every live workspace.
type StatsFunc func() []workspace.Stats

var _ prometheus.Collector = &Collector{}

var (
	workspacesDesc = prometheus.NewDesc(
		namespace+"_workspaces",
		"Number of live workspaces.",
		nil, nil,
	)
	documentsDesc = prometheus.NewDesc(
		namespace+"_documents",
		"Number of documents loaded across workspaces.",
		nil, nil,
	)
	operationsDesc = prometheus.NewDesc(
		namespace+"_tree_operations",
		"Number of operation entries in the tag trees.",
		nil, nil,
	)
	nodesDesc = prometheus.NewDesc(
		namespace+"_tree_nodes",
		"Number of tag tree nodes, roots included.",
		nil, nil,
	)
	objectsDesc = prometheus.NewDesc(
		namespace+"_document_objects",
		"Number of decoded objects and arrays.",
		nil, nil,
	)
	sourceBytesDesc = prometheus.NewDesc(
		namespace+"_document_source_bytes",
		"Size of the loaded sources in bytes.",
		nil, nil,
	)
	refLookupsDesc = prometheus.NewDesc(
		namespace+"_resolver_ref_lookups_total",
		"Resolver ref cache lookups by result. Resets when workspaces are replaced.",
		[]string{"result"}, nil,
	)
	nodeLookupsDesc = prometheus.NewDesc(
		namespace+"_resolver_node_lookups_total",
		"Resolver object cache lookups by result. Resets when workspaces are replaced.",
		[]string{"result"}, nil,
	)
	markersDesc = prometheus.NewDesc(
		namespace+"_resolver_markers_total",
		"Unresolvable references met by the resolvers, by kind.",
		[]string{"kind"}, nil,
	)
	cachedDesc = prometheus.NewDesc(
		namespace+"_resolver_cached_entries",
		"Entries held in the resolver caches.",
		[]string{"cache"}, nil,
	)
	privacyLookupsDesc = prometheus.NewDesc(
		namespace+"_privacy_lookups_total",
		"Privacy cache lookups by result.",
		[]string{"result"}, nil,
	)
	privacyEntriesDesc = prometheus.NewDesc(
		namespace+"_privacy_entries",
		"Entries held in the privacy caches.",
		nil, nil,
	)
)

// Collector is a prometheus.Collector over workspace statistics. Values are
// summed over the workspaces StatsFunc returns.
type Collector struct {
	stats StatsFunc
}

// NewCollector returns a collector reading from stats.
func NewCollector(stats StatsFunc) *Collector {
	return &Collector{stats: stats}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- workspacesDesc
	descs <- documentsDesc
	descs <- operationsDesc
	descs <- nodesDesc
	descs <- objectsDesc
	descs <- sourceBytesDesc
	descs <- refLookupsDesc
	descs <- nodeLookupsDesc
	descs <- markersDesc
	descs <- cachedDesc
	descs <- privacyLookupsDesc
	descs <- privacyEntriesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	all := c.stats()

	var t workspace.Stats
	for _, s := range all {
		t.Documents += s.Documents
		t.Operations += s.Operations
		t.Nodes += s.Nodes
		t.Objects += s.Objects
		t.SourceBytes += s.SourceBytes
		t.Resolver.RefHits += s.Resolver.RefHits
		t.Resolver.RefMisses += s.Resolver.RefMisses
		t.Resolver.NodeHits += s.Resolver.NodeHits
		t.Resolver.NodeMisses += s.Resolver.NodeMisses
		t.Resolver.Circular += s.Resolver.Circular
		t.Resolver.NotFound += s.Resolver.NotFound
		t.Resolver.External += s.Resolver.External
		t.Resolver.CachedRefs += s.Resolver.CachedRefs
		t.Resolver.CachedNodes += s.Resolver.CachedNodes
		t.PrivacyEntries += s.PrivacyEntries
		t.PrivacyHits += s.PrivacyHits
		t.PrivacyMisses += s.PrivacyMisses
	}

	gauge := func(d *prometheus.Desc, v int, labels ...string) {
		metrics <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v), labels...)
	}
	counter := func(d *prometheus.Desc, v int, labels ...string) {
		metrics <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}

	gauge(workspacesDesc, len(all))
	gauge(documentsDesc, t.Documents)
	gauge(operationsDesc, t.Operations)
	gauge(nodesDesc, t.Nodes)
	gauge(objectsDesc, t.Objects)
	gauge(sourceBytesDesc, t.SourceBytes)
	counter(refLookupsDesc, t.Resolver.RefHits, "hit")
	counter(refLookupsDesc, t.Resolver.RefMisses, "miss")
	counter(nodeLookupsDesc, t.Resolver.NodeHits, "hit")
	counter(nodeLookupsDesc, t.Resolver.NodeMisses, "miss")
	counter(markersDesc, t.Resolver.Circular, "circular")
	counter(markersDesc, t.Resolver.NotFound, "notFound")
	counter(markersDesc, t.Resolver.External, "external")
	gauge(cachedDesc, t.Resolver.CachedRefs, "ref")
	gauge(cachedDesc, t.Resolver.CachedNodes, "node")
	counter(privacyLookupsDesc, t.PrivacyHits, "hit")
	counter(privacyLookupsDesc, t.PrivacyMisses, "miss")
	gauge(privacyEntriesDesc, t.PrivacyEntries)
}

// ToolMetrics counts and times tool calls.
type ToolMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewToolMetrics registers the tool call metrics with reg.
func NewToolMetrics(reg prometheus.Registerer) *ToolMetrics {
	return &ToolMetrics{
		calls: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Time spent handling tool calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"tool"}),
	}
}

// Observe records one call of tool that took d and failed when err is non-nil.
// A nil receiver records nothing.
func (m *ToolMetrics) Observe(tool string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(tool, outcome).Inc()
	m.duration.WithLabelValues(tool).Observe(d.Seconds())
}

// NewRegistry returns a registry holding the Go and process collectors and,
// when stats is non-nil, a workspace Collector.
func NewRegistry(stats StatsFunc) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if stats != nil {
		reg.MustRegister(NewCollector(stats))
	}
	return reg
}

// Handler serves the metrics in reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
