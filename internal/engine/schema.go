package engine

import "github.com/facebookresearch/fbpcs-sub002/internal/dataset"

// publisherLiftSchema lists which publisher-Lift columns are summed across
// duplicate rows matching the same spine id, which are boolean-OR'd, and
// which are simply carried from the first row. This is an explicit table
// rather than a name-based guess.
//
//   - opportunity_timestamp is never aggregated: it only feeds the later
//     "opportunity" derivation (nonzero check), so the first occurrence is
//     representative.
//   - test_flag is a boolean marker and is combined with logical OR: a user
//     is considered test-flagged if any matching opportunity row says so.
//   - impressions/clicks/spend are counters and are summed.
//   - breakdown_metadata/campaign_metadata are opaque blobs and are carried
//     from the first row untouched.
var publisherLiftSchema = map[string]ColumnAggKind{
	dataset.ColOppTimestamp: AggTakeFirst,
	dataset.ColTestFlag:     AggLogicalOr,
	"impressions":           AggSum,
	"clicks":                AggSum,
	"spend":                 AggSum,
	"breakdown_metadata":    AggTakeFirst,
	dataset.ColCampaignMeta: AggTakeFirst,
}

// publisherLiftAggs builds the per-column aggregation spec for every
// non-id column actually present in header, defaulting to TakeFirst for
// any column the schema above doesn't name.
func publisherLiftAggs(header []string) []ColumnAgg {
	aggs := make([]ColumnAgg, 0, len(header))
	for _, col := range header {
		kind, ok := publisherLiftSchema[col]
		if !ok {
			kind = AggTakeFirst
		}
		aggs = append(aggs, ColumnAgg{Column: col, Kind: kind})
	}
	return aggs
}
