package statistics

import (
	"github.com/lux2go/lux2go/internal/connection"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSession = "session"

type SessionSource interface {
	State() connection.SessionState
	Counters() connection.Counters
}

type FrameSource interface {
	MalformedFrames() uint64
}

type SessionCollector struct {
	session SessionSource
	frames  FrameSource

	phase           *prometheus.Desc
	connects        *prometheus.Desc
	reconnects      *prometheus.Desc
	backoffs        *prometheus.Desc
	writes          *prometheus.Desc
	writeFailures   *prometheus.Desc
	malformedFrames *prometheus.Desc
}

func NewSessionCollector(session SessionSource, frames FrameSource) *SessionCollector {
	return &SessionCollector{
		session: session,
		frames:  frames,
		phase: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "phase"),
			"Current phase of the connection, 1 for the active phase",
			[]string{"phase"}, nil,
		),
		connects: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "connects_total"),
			"Number of times streaming was started",
			nil, nil,
		),
		reconnects: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "reconnects_total"),
			"Number of times streaming was restarted after a lost connection",
			nil, nil,
		),
		backoffs: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "backoffs_total"),
			"Number of backoff sleeps after failures",
			nil, nil,
		),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "writes_total"),
			"Number of actuator commands written",
			nil, nil,
		),
		writeFailures: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "write_failures_total"),
			"Number of failed actuator command writes",
			nil, nil,
		),
		malformedFrames: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSession, "malformed_frames_total"),
			"Number of dropped sensor frames",
			nil, nil,
		),
	}
}

func (collector *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.phase
	ch <- collector.connects
	ch <- collector.reconnects
	ch <- collector.backoffs
	ch <- collector.writes
	ch <- collector.writeFailures
	ch <- collector.malformedFrames
}

// Collect implements required collect function for all prometheus collectors
func (collector *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	state := collector.session.State()
	for phase := connection.Scanning; phase <= connection.Disconnected; phase++ {
		value := 0.0
		if phase == state.Phase {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.phase, prometheus.GaugeValue, value, phase.String())
	}

	counters := collector.session.Counters()
	ch <- prometheus.MustNewConstMetric(collector.connects, prometheus.CounterValue, float64(counters.Connects))
	ch <- prometheus.MustNewConstMetric(collector.reconnects, prometheus.CounterValue, float64(counters.Reconnects))
	ch <- prometheus.MustNewConstMetric(collector.backoffs, prometheus.CounterValue, float64(counters.Backoffs))
	ch <- prometheus.MustNewConstMetric(collector.writes, prometheus.CounterValue, float64(counters.Writes))
	ch <- prometheus.MustNewConstMetric(collector.writeFailures, prometheus.CounterValue, float64(counters.WriteFailures))
	ch <- prometheus.MustNewConstMetric(collector.malformedFrames, prometheus.CounterValue, float64(collector.frames.MalformedFrames()))
}
