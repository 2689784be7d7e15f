// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "pebble"
	metricsInterval  = 10 * time.Second
)

// metrics describes one store. The CLI opens a store per namespace (ledger
// state and wallet), so every name ends up prefixed by that namespace.
type metrics struct {
	// Each committed call or deploy is one batch.
	batchWrites  prometheus.Counter
	batchOps     prometheus.Counter
	batchLatency metric.Averager
	readLatency  metric.Averager

	stallStart time.Time
	writeStall metric.Averager

	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	// Sampled every [metricsInterval].
	tombstones    prometheus.Gauge
	obsoleteBytes prometheus.Gauge
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	})
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		batchWrites:       newCounter("batch_writes", "number of batches committed"),
		batchOps:          newCounter("batch_ops", "number of puts and deletes committed in batches"),
		l0Compactions:     newCounter("l0_compactions", "number of l0 compactions"),
		otherCompactions:  newCounter("other_compactions", "number of l1+ compactions"),
		activeCompactions: newGauge("active_compactions", "number of active compactions"),
		tombstones:        newGauge("tombstones", "approximate count of internal tombstones"),
		obsoleteBytes:     newGauge("obsolete_bytes", "bytes in tables no longer referenced by the store"),
	}
	errs := wrappers.Errs{}
	averager := func(name, help string) metric.Averager {
		a, err := metric.NewAverager("", metricsNamespace+"_"+name, help, r)
		errs.Add(err)
		return a
	}
	m.batchLatency = averager("batch_latency", "time spent committing a batch")
	m.readLatency = averager("read_latency", "time spent reading a key")
	m.writeStall = averager("write_stall", "time spent waiting for disk write")
	errs.Add(
		r.Register(m.batchWrites),
		r.Register(m.batchOps),
		r.Register(m.l0Compactions),
		r.Register(m.otherCompactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstones),
		r.Register(m.obsoleteBytes),
	)
	return r, m, errs.Err
}

func (m *metrics) observeBatch(ops int, start time.Time) {
	m.batchWrites.Inc()
	m.batchOps.Add(float64(ops))
	m.batchLatency.Observe(float64(time.Since(start)))
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		db.metrics.l0Compactions.Inc()
	} else {
		db.metrics.otherCompactions.Inc()
	}
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

// sampleMetrics runs until the store is closed.
func (db *Database) sampleMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m := db.db.Metrics()
			db.metrics.tombstones.Set(float64(m.Keys.TombstoneCount))
			db.metrics.obsoleteBytes.Set(float64(m.Table.ObsoleteSize))
		case <-db.closing:
			return
		}
	}
}
