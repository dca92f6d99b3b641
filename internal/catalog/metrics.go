package catalog

import "github.com/prometheus/client_golang/prometheus"

const labelOp = "op"

type StoreMetrics struct {
	Ops   *prometheus.CounterVec
	Items prometheus.GaugeFunc
	Tags  prometheus.GaugeFunc
}

func NewStoreMetrics(reg prometheus.Registerer, s Store) *StoreMetrics {
	m := &StoreMetrics{
		Ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_operations_total",
				Help: "Catalog operations by kind",
			},
			[]string{labelOp},
		),
		Items: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "catalog_items",
				Help: "Items in the catalog",
			},
			func() float64 { return float64(s.Stats().Items) },
		),
		Tags: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "catalog_tags",
				Help: "Distinct tags with at least one item",
			},
			func() float64 { return float64(s.Stats().Tags) },
		),
	}

	reg.MustRegister(m.Ops, m.Items, m.Tags)
	return m
}

func (m *StoreMetrics) observe(op string) {
	if m == nil {
		return
	}
	m.Ops.WithLabelValues(op).Inc()
}
