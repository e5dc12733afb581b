package metrics

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// All tracked metrics are to be added here.
// UnitType of the metric i.e. Incr / Count must be prefixed with each metric name.
const (
	// Table population.
	IncrTableRowsAdded       = "table_rows_added"
	IncrTableRowsRejected    = "table_rows_rejected"
	IncrTableClears          = "table_clears"
	IncrTableClones          = "table_clones"
	IncrTableIndexRebuilds   = "table_index_rebuilds"
	IncrFrequentRowsPromoted = "frequent_rows_promoted"

	// Closure deduplication.
	IncrClosureRowsAdded         = "closure_rows_added"
	IncrClosureDuplicatesDropped = "closure_duplicates_dropped"
	IncrClosureRowsEmitted       = "closure_rows_emitted"
	CountClosureMaxClosureSize   = "closure_max_closure_size"
	CountGeneratorTableRows      = "generator_table_rows"
)

var (
	countStatsInt = stats.Int64("itemset_int_counter", "Itemset table counters", stats.UnitDimensionless)
	valueStatsInt = stats.Int64("itemset_int_value", "Itemset table sizes", stats.UnitDimensionless)
)

var (
	// MetricNameTag Label for the metric to be updated. To be used in filter.
	MetricNameTag, _ = tag.NewKey("metric_name")
)

var (
	CountIntView = &view.View{
		Measure:     countStatsInt,
		Name:        "itemset_count_int_view",
		Description: "Count int view",
		Aggregation: view.Sum(),
		TagKeys:     []tag.Key{MetricNameTag},
	}

	ValueIntView = &view.View{
		Measure:     valueStatsInt,
		Name:        "itemset_value_int_view",
		Description: "Last reported size",
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{MetricNameTag},
	}
)

// InitMetrics registers the views so recorded values are aggregated. Without
// it recording is a cheap no-op.
func InitMetrics() error {
	logCtx := log.WithField("Tag", "Metrics")
	if err := view.Register(CountIntView, ValueIntView); err != nil {
		logCtx.WithError(err).Error("Failed to register the view")
		return err
	}
	logCtx.Debug("Registered itemset metric views.")
	return nil
}

// StopMetrics unregisters the views.
func StopMetrics() {
	view.Unregister(CountIntView, ValueIntView)
}

// Increment Increment the given metric by 1.
func Increment(metricName string) {
	CountInt(metricName, int64(1))
}

// CountInt Reports the count value for given int Metric.
func CountInt(metricName string, count int64) {
	ctx, err := tag.New(context.Background(), tag.Upsert(MetricNameTag, metricName))
	if err != nil {
		log.WithError(err).Error("Failed to record CountInt")
		return
	}
	stats.Record(ctx, countStatsInt.M(count))
}

// RecordValue Reports the latest value of a size metric.
func RecordValue(metricName string, value int64) {
	ctx, err := tag.New(context.Background(), tag.Upsert(MetricNameTag, metricName))
	if err != nil {
		log.WithError(err).Error("Failed to record Value")
		return
	}
	stats.Record(ctx, valueStatsInt.M(value))
}

// Sum returns the aggregated count of metricName. ok is false when nothing
// was recorded or the views are not registered.
func Sum(metricName string) (int64, bool) {
	rows, err := view.RetrieveData(CountIntView.Name)
	if err != nil {
		return 0, false
	}
	for _, row := range rows {
		if !hasMetricTag(row.Tags, metricName) {
			continue
		}
		if data, ok := row.Data.(*view.SumData); ok {
			return int64(data.Value), true
		}
	}
	return 0, false
}

// Last returns the last reported value of metricName.
func Last(metricName string) (int64, bool) {
	rows, err := view.RetrieveData(ValueIntView.Name)
	if err != nil {
		return 0, false
	}
	for _, row := range rows {
		if !hasMetricTag(row.Tags, metricName) {
			continue
		}
		if data, ok := row.Data.(*view.LastValueData); ok {
			return int64(data.Value), true
		}
	}
	return 0, false
}

func hasMetricTag(tags []tag.Tag, metricName string) bool {
	for _, t := range tags {
		if t.Key == MetricNameTag && t.Value == metricName {
			return true
		}
	}
	return false
}
