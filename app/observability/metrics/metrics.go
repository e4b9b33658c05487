package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PlansTotal               metric.Int64Counter
	PlanDurationSeconds      metric.Float64Histogram
	PlannedStopsPerTrip      metric.Int64Histogram
	OverpassFetchesTotal     metric.Int64Counter
	OverpassFetchErrorsTotal metric.Int64Counter
	OverpassFetchDuration    metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripweaver")
		var err error
		m := &AppMetrics{}

		m.PlansTotal, err = meter.Int64Counter(
			"plans_total",
			metric.WithDescription("Total number of itinerary planning runs"),
			metric.WithUnit("{plan}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plans_total: %v", err)
		}

		m.PlanDurationSeconds, err = meter.Float64Histogram(
			"plan_duration_seconds",
			metric.WithDescription("Duration of itinerary planning runs in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_duration_seconds: %v", err)
		}

		m.PlannedStopsPerTrip, err = meter.Int64Histogram(
			"planned_stops_per_trip",
			metric.WithDescription("Number of stops selected per planned trip"),
			metric.WithUnit("{stop}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planned_stops_per_trip: %v", err)
		}

		m.OverpassFetchesTotal, err = meter.Int64Counter(
			"overpass_fetches_total",
			metric.WithDescription("Total number of Overpass POI fetch attempts"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create overpass_fetches_total: %v", err)
		}

		m.OverpassFetchErrorsTotal, err = meter.Int64Counter(
			"overpass_fetch_errors_total",
			metric.WithDescription("Total number of failed Overpass POI fetches"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create overpass_fetch_errors_total: %v", err)
		}

		m.OverpassFetchDuration, err = meter.Float64Histogram(
			"overpass_fetch_duration_seconds",
			metric.WithDescription("Duration of Overpass POI fetches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create overpass_fetch_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called at startup.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
