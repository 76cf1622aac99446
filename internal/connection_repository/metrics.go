package connection_repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type connectionStoreMetrics struct {
	createConnectionDuration prometheus.Histogram
	lookupConnectionDuration prometheus.Histogram
	updateConnectionDuration prometheus.Histogram
	deleteConnectionDuration prometheus.Histogram
	listConnectionsDuration  prometheus.Histogram
}

var metrics *connectionStoreMetrics

func init() {
	metrics = new(connectionStoreMetrics)

	metrics.createConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connection_catalog_create_connection_duration",
		Help: "The amount of time it took to create a connection in the table",
	})

	metrics.lookupConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connection_catalog_lookup_connection_duration",
		Help: "The amount of time it took to lookup a connection using namespace and id",
	})

	metrics.updateConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connection_catalog_update_connection_duration",
		Help: "The amount of time it took to update a connection in the table",
	})

	metrics.deleteConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connection_catalog_delete_connection_duration",
		Help: "The amount of time it took to delete a connection from the table",
	})

	metrics.listConnectionsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connection_catalog_list_connections_duration",
		Help: "The amount of time it took to scan the connections in a namespace",
	})
}
