package otel

import "go.opentelemetry.io/otel/metric"

// BrokerMetrics are the counters the session broker records. All fields may be
// used with a nil receiver guard at the call site when telemetry is disabled.
type BrokerMetrics struct {
	SessionsOpened   metric.Int64Counter
	SessionsResolved metric.Int64Counter
	ResolvesDenied   metric.Int64Counter
	AlertsPublished  metric.Int64Counter
}

// NewBrokerMetrics registers the broker counters on the given meter.
func NewBrokerMetrics(meter metric.Meter) (*BrokerMetrics, error) {
	opened, err := meter.Int64Counter("safeguard.sessions.opened",
		metric.WithDescription("Emergency sessions created by a trigger"))
	if err != nil {
		return nil, err
	}
	resolved, err := meter.Int64Counter("safeguard.sessions.resolved",
		metric.WithDescription("Successful session resolutions"))
	if err != nil {
		return nil, err
	}
	denied, err := meter.Int64Counter("safeguard.sessions.denied",
		metric.WithDescription("Session resolutions rejected as missing or expired"))
	if err != nil {
		return nil, err
	}
	alerts, err := meter.Int64Counter("safeguard.alerts.published",
		metric.WithDescription("Alert payloads handed to the delivery pipeline"))
	if err != nil {
		return nil, err
	}
	return &BrokerMetrics{
		SessionsOpened:   opened,
		SessionsResolved: resolved,
		ResolvesDenied:   denied,
		AlertsPublished:  alerts,
	}, nil
}
