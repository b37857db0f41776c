package metrics

import "testing"

func TestFakeMetricsAcceptsNilTags(t *testing.T) {
	m := NewMetricsFake()

	t.Run("Empty tags and fields", func(_ *testing.T) {
		m.LogEvent("test", nil, nil)
		m.LogChatEvent("test", 0, nil)
		m.Close()
	})
}
