package statistics

import (
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemChannel = "channel"

type ChannelCollector struct {
	channels []*sensors.Channel

	raw         *prometheus.Desc
	lux         *prometheus.Desc
	filteredLux *prometheus.Desc
	windowMin   *prometheus.Desc
	windowMax   *prometheus.Desc
	windowAvg   *prometheus.Desc
}

func NewChannelCollector(channels []*sensors.Channel) *ChannelCollector {
	return &ChannelCollector{
		channels: channels,
		raw: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "raw"),
			"Last raw ADC count of the channel",
			[]string{"channel"}, nil,
		),
		lux: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "lux"),
			"Last unfiltered illuminance of the channel",
			[]string{"channel"}, nil,
		),
		filteredLux: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "filtered_lux"),
			"Last filtered illuminance of the channel",
			[]string{"channel"}, nil,
		),
		windowMin: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "window_min_lux"),
			"Minimum unfiltered illuminance within the rolling window",
			[]string{"channel"}, nil,
		),
		windowMax: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "window_max_lux"),
			"Maximum unfiltered illuminance within the rolling window",
			[]string{"channel"}, nil,
		),
		windowAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemChannel, "window_avg_lux"),
			"Average unfiltered illuminance within the rolling window",
			[]string{"channel"}, nil,
		),
	}
}

func (collector *ChannelCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.raw
	ch <- collector.lux
	ch <- collector.filteredLux
	ch <- collector.windowMin
	ch <- collector.windowMax
	ch <- collector.windowAvg
}

// Collect implements required collect function for all prometheus collectors
func (collector *ChannelCollector) Collect(ch chan<- prometheus.Metric) {
	for _, channel := range collector.channels {
		snapshot := channel.Snapshot()
		if !snapshot.Valid {
			continue
		}
		name := snapshot.Name
		ch <- prometheus.MustNewConstMetric(collector.raw, prometheus.GaugeValue, float64(snapshot.Raw), name)
		ch <- prometheus.MustNewConstMetric(collector.lux, prometheus.GaugeValue, snapshot.Lux, name)
		ch <- prometheus.MustNewConstMetric(collector.filteredLux, prometheus.GaugeValue, snapshot.FilteredLux, name)
		ch <- prometheus.MustNewConstMetric(collector.windowMin, prometheus.GaugeValue, snapshot.WindowMin, name)
		ch <- prometheus.MustNewConstMetric(collector.windowMax, prometheus.GaugeValue, snapshot.WindowMax, name)
		ch <- prometheus.MustNewConstMetric(collector.windowAvg, prometheus.GaugeValue, snapshot.WindowAvg, name)
	}
}
