package metrics

// metricsFake is a no-op implementation of Metrics, used when no
// InfluxDB endpoint is configured.
type metricsFake struct{}

var _ Metrics = (*metricsFake)(nil)

// NewMetricsFake creates a no-op Metrics instance.
func NewMetricsFake() Metrics {
	return &metricsFake{}
}

// LogEvent is a no-op.
func (metrics *metricsFake) LogEvent(_ string, _ map[string]string, _ map[string]interface{}) {
}

// LogChatEvent is a no-op.
func (metrics *metricsFake) LogChatEvent(_ string, _ int64, _ map[string]interface{}) {
}

// Close is a no-op.
func (metrics *metricsFake) Close() {
}
