// Package dataset classifies a data file's header into one of the four
// supported dataset kinds and derives the ordered set of columns GroupBy
// must aggregate.
package dataset

import (
	"fmt"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// Kind identifies which of the four supported dataset shapes a header
// describes.
type Kind int

const (
	Unknown Kind = iota
	PublisherAttr
	PartnerAttr
	PublisherLift
	PartnerLift
)

func (k Kind) String() string {
	switch k {
	case PublisherAttr:
		return "PublisherAttr"
	case PartnerAttr:
		return "PartnerAttr"
	case PublisherLift:
		return "PublisherLift"
	case PartnerLift:
		return "PartnerLift"
	default:
		return "Unknown"
	}
}

// IsPublisher reports whether k is one of the two publisher-side kinds.
func (k Kind) IsPublisher() bool {
	return k == PublisherAttr || k == PublisherLift
}

// Column name constants shared by the Attribution and Lift schemas.
const (
	ColAdID          = "ad_id"
	ColTimestamp     = "timestamp"
	ColIsClick       = "is_click"
	ColTargetID      = "target_id"
	ColActionType    = "action_type"
	ColCampaignMeta  = "campaign_metadata"
	ColConvTimestamp = "conversion_timestamp"
	ColConvValue     = "conversion_value"
	ColConvTargetID  = "conversion_target_id"
	ColConvAction    = "conversion_action_type"
	ColConvMeta      = "conversion_metadata"
	ColOppTimestamp  = "opportunity_timestamp"
	ColTestFlag      = "test_flag"
	ColEventTS       = "event_timestamp"
	ColValue         = "value"
	ColCohortID      = "cohort_id"
)

// AggKind names how GroupBy/IdSwap-duplicate-collapse must combine multiple
// values of a column into one. The per-column kind is an explicit part of a
// schema rather than something inferred from the column name.
type AggKind int

const (
	// TakeFirst keeps the first group value verbatim (no aggregation).
	TakeFirst AggKind = iota
	// Sum adds integer values together (used only by the publisher-Lift
	// duplicate-collapse step in IdSwap, not by GroupBy itself).
	Sum
	// LogicalOr combines boolean-flag columns with a bitwise/logical OR.
	LogicalOr
)

// ErrInvalidHeaders is returned when a header cannot be classified, is
// ambiguous between publisher and partner, or violates the paired-optional
// column rule.
type ErrInvalidHeaders struct {
	Reason string
}

func (e *ErrInvalidHeaders) Error() string {
	return fmt.Sprintf("dataset: invalid headers: %s", e.Reason)
}

func hasAll(h csvio.Header, cols ...string) bool {
	for _, c := range cols {
		if h.Index(c) < 0 {
			return false
		}
	}
	return true
}

func hasAny(h csvio.Header, cols ...string) bool {
	for _, c := range cols {
		if h.Index(c) >= 0 {
			return true
		}
	}
	return false
}

// Probe holds the classification result: the dataset kind and the ordered
// aggregated-columns list (required columns followed by present optional
// columns, in fixed order), which GroupBy/AddPadding/HeaderColumnsToPlural
// consume downstream.
type Probe struct {
	Kind       Kind
	Aggregated []string
}

// Classify determines the dataset kind from its header. Attribution
// headers are tried first (required-column presence, then the
// paired-optional-column rule), then Lift headers (disjoint required
// markers).
func Classify(h csvio.Header) (Probe, error) {
	pubAttrReq := hasAll(h, ColAdID, ColTimestamp, ColIsClick)
	partnerAttrReq := hasAll(h, ColConvTimestamp, ColConvValue)
	pubLiftReq := hasAll(h, ColOppTimestamp, ColTestFlag)
	partnerLiftReq := h.Index(ColEventTS) >= 0

	attrReqCount := boolToInt(pubAttrReq) + boolToInt(partnerAttrReq)
	liftReqCount := boolToInt(pubLiftReq) + boolToInt(partnerLiftReq)

	switch {
	case pubAttrReq && !partnerAttrReq && !pubLiftReq && !partnerLiftReq:
		return classifyPublisherAttr(h)
	case partnerAttrReq && !pubAttrReq && !pubLiftReq && !partnerLiftReq:
		return classifyPartnerAttr(h)
	case pubLiftReq && !partnerLiftReq && !pubAttrReq && !partnerAttrReq:
		return Probe{Kind: PublisherLift, Aggregated: nil}, nil
	case partnerLiftReq && !pubLiftReq && !pubAttrReq && !partnerAttrReq:
		return classifyPartnerLift(h)
	case attrReqCount+liftReqCount == 0:
		return Probe{}, &ErrInvalidHeaders{Reason: "neither publisher nor partner required columns present"}
	default:
		return Probe{}, &ErrInvalidHeaders{Reason: "both publisher and partner required columns present, or dataset kind is ambiguous"}
	}
}

func classifyPublisherAttr(h csvio.Header) (Probe, error) {
	if hasAny(h, ColTargetID, ColActionType) && !hasAll(h, ColTargetID, ColActionType) {
		return Probe{}, &ErrInvalidHeaders{Reason: "target_id/action_type must both be present or both absent"}
	}
	agg := []string{ColAdID, ColTimestamp, ColIsClick}
	if hasAll(h, ColTargetID, ColActionType) {
		agg = append(agg, ColTargetID, ColActionType)
	}
	if h.Index(ColCampaignMeta) >= 0 {
		agg = append(agg, ColCampaignMeta)
	}
	return Probe{Kind: PublisherAttr, Aggregated: agg}, nil
}

func classifyPartnerAttr(h csvio.Header) (Probe, error) {
	if hasAny(h, ColConvTargetID, ColConvAction) && !hasAll(h, ColConvTargetID, ColConvAction) {
		return Probe{}, &ErrInvalidHeaders{Reason: "conversion_target_id/conversion_action_type must both be present or both absent"}
	}
	agg := []string{ColConvTimestamp, ColConvValue}
	if hasAll(h, ColConvTargetID, ColConvAction) {
		agg = append(agg, ColConvTargetID, ColConvAction)
	}
	if h.Index(ColConvMeta) >= 0 {
		agg = append(agg, ColConvMeta)
	}
	return Probe{Kind: PartnerAttr, Aggregated: agg}, nil
}

func classifyPartnerLift(h csvio.Header) (Probe, error) {
	agg := []string{ColEventTS}
	if h.Index(ColValue) >= 0 {
		agg = append(agg, ColValue)
	}
	// cohort_id is a per-user scalar, never aggregated into a list (see
	// runLiftPartner in internal/engine/lift.go).
	return Probe{Kind: PartnerLift, Aggregated: agg}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
