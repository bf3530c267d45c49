package statistics

import (
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemActuator = "actuator"

type ActuatorSource interface {
	ActuatorState() actuator.State
}

type ActuatorCollector struct {
	source ActuatorSource

	position *prometheus.Desc
	commands *prometheus.Desc
}

func NewActuatorCollector(source ActuatorSource) *ActuatorCollector {
	return &ActuatorCollector{
		source: source,
		position: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemActuator, "position"),
			"Last commanded actuator position",
			nil, nil,
		),
		commands: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemActuator, "commands_total"),
			"Number of position changes commanded by the dispatcher",
			nil, nil,
		),
	}
}

func (collector *ActuatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.position
	ch <- collector.commands
}

// Collect implements required collect function for all prometheus collectors
func (collector *ActuatorCollector) Collect(ch chan<- prometheus.Metric) {
	state := collector.source.ActuatorState()
	ch <- prometheus.MustNewConstMetric(collector.position, prometheus.GaugeValue, float64(state.Position))
	ch <- prometheus.MustNewConstMetric(collector.commands, prometheus.CounterValue, float64(state.Writes))
}
