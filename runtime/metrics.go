// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Names are prefixed by the gatherer the registry is registered with.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type metrics struct {
	deployments  prometheus.Counter
	calls        *prometheus.CounterVec
	transactions *prometheus.CounterVec
	smashes      prometheus.Counter
	swept        prometheus.Counter
	funded       prometheus.Counter
	height       prometheus.Gauge

	callLatency metric.Averager
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	callLatency, err := metric.NewAverager(
		"",
		"call_latency",
		"time spent executing a call",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		callLatency: callLatency,
		deployments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deployments",
			Help: "number of instances deployed",
		}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calls",
			Help: "number of calls by entrypoint and outcome",
		}, []string{"entrypoint", "outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions",
			Help: "number of signed transactions by outcome",
		}, []string{"outcome"}),
		smashes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashes",
			Help: "number of banks smashed",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swept",
			Help: "value transferred out of instances",
		}),
		funded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "funded",
			Help: "value credited to accounts",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "height",
			Help: "height of the last applied operation",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.deployments),
		r.Register(m.calls),
		r.Register(m.transactions),
		r.Register(m.smashes),
		r.Register(m.swept),
		r.Register(m.funded),
		r.Register(m.height),
	)
	return r, m, errs.Err
}

func outcome(success bool) string {
	if success {
		return outcomeSuccess
	}
	return outcomeFailure
}
