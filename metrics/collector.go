/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exports chunk pool counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudwego/chunkmem/pool"
)

// StatsSource is implemented by *pool.Pool and *pool.SafePool.
// A *pool.Pool must only be collected from the goroutine that owns it.
type StatsSource interface {
	Stats() pool.Stats
}

// Collector implements prometheus.Collector for one pool.
type Collector struct {
	src StatsSource

	totalBytes  *prometheus.Desc
	usedBytes   *prometheus.Desc
	freeBytes   *prometheus.Desc
	chunks      *prometheus.Desc
	blocks      *prometheus.Desc
	objects     *prometheus.Desc
	utilization *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector whose series carry the label pool=name.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"pool": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("chunkmem", "pool", metric), help, nil, labels)
	}
	return &Collector{
		src:         src,
		totalBytes:  desc("total_bytes", "Pool size in bytes"),
		usedBytes:   desc("used_bytes", "Bytes reserved by live allocations, in whole chunks"),
		freeBytes:   desc("free_bytes", "Bytes available without growing"),
		chunks:      desc("chunks", "Number of chunks in the ledger"),
		blocks:      desc("blocks", "Number of backing blocks"),
		objects:     desc("objects", "Number of live allocations"),
		utilization: desc("utilization", "Used bytes / total bytes (0.0-1.0)"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalBytes
	ch <- c.usedBytes
	ch <- c.freeBytes
	ch <- c.chunks
	ch <- c.blocks
	ch <- c.objects
	ch <- c.utilization
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	gauge(c.totalBytes, float64(s.TotalBytes))
	gauge(c.usedBytes, float64(s.UsedBytes))
	gauge(c.freeBytes, float64(s.FreeBytes))
	gauge(c.chunks, float64(s.Chunks))
	gauge(c.blocks, float64(s.Blocks))
	gauge(c.objects, float64(s.Objects))
	gauge(c.utilization, s.Utilization)
}
