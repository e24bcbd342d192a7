// Package metrics 提供对局的 Prometheus 统计
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option Manager 的配置选项
type Option func(*Manager)

// WithNamespace 设置指标命名空间
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem 设置指标子系统
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets 自定义回合时长直方图分桶
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry 使用指定的 Prometheus 注册表
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
