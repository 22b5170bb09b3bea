package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sortResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_sort_requests_total",
		Help: "Sort requests by result (ok or the sort error kind)",
	}, []string{"result"})
	storedItineraries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "itinerary_stored",
		Help: "Itineraries currently held in the store",
	})
)
