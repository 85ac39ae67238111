package vinvalidator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Metrics instance to Prometheus.
// Values are read from the atomic counters at scrape time.
type Collector struct {
	metrics *Metrics

	operations         *prometheus.Desc
	operationFailures  *prometheus.Desc
	operationSeconds   *prometheus.Desc
	checksumMismatches *prometheus.Desc
	unknownLookups     *prometheus.Desc
	issues             *prometheus.Desc
}

// NewCollector returns a prometheus.Collector for m.
// namespace prefixes every metric name; it may be empty.
func NewCollector(m *Metrics, namespace string) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "vin", n)
	}
	return &Collector{
		metrics: m,
		operations: prometheus.NewDesc(name("operations_total"),
			"Operations performed, by operation.", []string{"operation"}, nil),
		operationFailures: prometheus.NewDesc(name("operation_failures_total"),
			"Operations that rejected their input, by operation.", []string{"operation"}, nil),
		operationSeconds: prometheus.NewDesc(name("operation_seconds_total"),
			"Time spent in operations, by operation.", []string{"operation"}, nil),
		checksumMismatches: prometheus.NewDesc(name("checksum_mismatches_total"),
			"Check digit mismatches found.", nil, nil),
		unknownLookups: prometheus.NewDesc(name("unknown_lookups_total"),
			"Lookups that found no name in the reference tables, by field.", []string{"field"}, nil),
		issues: prometheus.NewDesc(name("issues_total"),
			"Issues reported, by severity.", []string{"severity"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.operations
	ch <- c.operationFailures
	ch <- c.operationSeconds
	ch <- c.checksumMismatches
	ch <- c.unknownLookups
	ch <- c.issues
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.metrics == nil {
		return
	}
	s := c.metrics.Snapshot()

	for _, op := range s.Operations {
		ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(op.Calls), op.Name)
		ch <- prometheus.MustNewConstMetric(c.operationFailures, prometheus.CounterValue, float64(op.Failures), op.Name)
		ch <- prometheus.MustNewConstMetric(c.operationSeconds, prometheus.CounterValue, op.Total.Seconds(), op.Name)
	}

	ch <- prometheus.MustNewConstMetric(c.checksumMismatches, prometheus.CounterValue, float64(s.ChecksumMismatches))

	ch <- prometheus.MustNewConstMetric(c.unknownLookups, prometheus.CounterValue, float64(s.UnknownCountry), FieldCountry)
	ch <- prometheus.MustNewConstMetric(c.unknownLookups, prometheus.CounterValue, float64(s.UnknownManufacturer), FieldManufacturer)
	ch <- prometheus.MustNewConstMetric(c.unknownLookups, prometheus.CounterValue, float64(s.UnknownRegion), FieldRegion)

	ch <- prometheus.MustNewConstMetric(c.issues, prometheus.CounterValue, float64(s.ErrorsTotal), string(SeverityError))
	ch <- prometheus.MustNewConstMetric(c.issues, prometheus.CounterValue, float64(s.WarningsTotal), string(SeverityWarning))
	ch <- prometheus.MustNewConstMetric(c.issues, prometheus.CounterValue, float64(s.InfosTotal), string(SeverityInformation))
}
