package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
	"github.com/facebookresearch/fbpcs-sub002/internal/dataset"
)

// RunLift is the Lift Orchestrator: it classifies the incoming dataset,
// joins it against the spine, and applies the publisher or partner
// post-processing chain for the Lift MPC game.
//
// For protocol PID, data is the raw publisher/partner file and spineR is
// the headerless identity spine; IdSwap performs the join. For protocol
// MR_PID, data is ignored (the upstream MR-PID matcher already produced a
// joined, headered file) and spineR carries that joined file directly; the
// join step becomes a passthrough, though the publisher branch's
// duplicate-row collapse still runs against it.
func RunLift(cfg Config, data io.Reader, spineR io.Reader, out io.Writer) error {
	var joined []byte
	var kind dataset.Kind

	if cfg.Protocol == MRPID {
		b, err := io.ReadAll(spineR)
		if err != nil {
			return err
		}
		probe, err := classifyBytes(b)
		if err != nil {
			return err
		}
		kind = probe.Kind
		joined = b
		if kind == dataset.PublisherLift {
			header, err := headerOf(joined)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := CollapseByID(bytes.NewReader(joined), &buf, publisherLiftAggs(nonIDColumns(header))); err != nil {
				return err
			}
			joined = buf.Bytes()
		}
	} else {
		dataBytes, err := io.ReadAll(data)
		if err != nil {
			return err
		}
		probe, err := classifyBytes(dataBytes)
		if err != nil {
			return err
		}
		kind = probe.Kind

		idCfg := IdSwapConfig{MaxIDColumnCnt: cfg.MaxIDColumnCnt}
		if kind == dataset.PublisherLift {
			header, err := headerOf(dataBytes)
			if err != nil {
				return err
			}
			idCfg.CollapseDuplicates = true
			idCfg.Aggs = publisherLiftAggs(nonIDColumns(header))
		}
		var buf bytes.Buffer
		if err := IdSwap(bytes.NewReader(dataBytes), spineR, &buf, idCfg); err != nil {
			return err
		}
		joined = buf.Bytes()
	}

	switch kind {
	case dataset.PublisherLift:
		return runLiftPublisher(cfg, joined, out)
	case dataset.PartnerLift:
		return runLiftPartner(cfg, joined, out)
	default:
		return fmt.Errorf("engine: lift orchestrator requires a Lift dataset, got %s", kind)
	}
}

// runLiftPublisher applies the publisher-Lift tail: optional id-sort,
// followed by deriving the "opportunity" column from opportunity_timestamp.
func runLiftPublisher(cfg Config, joined []byte, out io.Writer) error {
	sorted, err := maybeSortIds(cfg, joined)
	if err != nil {
		return err
	}
	return deriveOpportunity(bytes.NewReader(sorted), out)
}

// runLiftPartner applies the partner-Lift tail: GroupBy (cohort_id excluded
// from aggregation, so it survives as a per-user scalar), optional id-sort,
// plural rename, padding to multi_conversion_limit, then a final sort of
// every list column by event_timestamps.
func runLiftPartner(cfg Config, joined []byte, out io.Writer) error {
	header, err := headerOf(joined)
	if err != nil {
		return err
	}
	probe, err := classifyBytes(joined)
	if err != nil {
		return err
	}
	_ = header

	var grouped bytes.Buffer
	if err := GroupBy(bytes.NewReader(joined), &grouped, "id_", probe.Aggregated); err != nil {
		return err
	}

	sorted, err := maybeSortIds(cfg, grouped.Bytes())
	if err != nil {
		return err
	}

	pluralCols := make([]string, len(probe.Aggregated))
	copy(pluralCols, probe.Aggregated)
	var pluraled bytes.Buffer
	if err := HeaderColumnsToPlural(bytes.NewReader(sorted), &pluraled, pluralCols); err != nil {
		return err
	}

	padSpecs := make([]PadSpec, len(probe.Aggregated))
	plural := make([]string, len(probe.Aggregated))
	for i, c := range probe.Aggregated {
		plural[i] = c + "s"
		padSpecs[i] = PadSpec{Column: plural[i], Width: cfg.MultiConversionLimit}
	}
	var padded bytes.Buffer
	if err := AddPaddingToCols(bytes.NewReader(pluraled.Bytes()), &padded, padSpecs, true); err != nil {
		return err
	}

	sortBy := dataset.ColEventTS + "s"
	return SortIntegralValues(bytes.NewReader(padded.Bytes()), out, sortBy, plural)
}

// maybeSortIds runs SortIds over joined when cfg.SortStrategy asks for it,
// otherwise returns joined unchanged.
func maybeSortIds(cfg Config, joined []byte) ([]byte, error) {
	if cfg.SortStrategy != SortIDs {
		return joined, nil
	}
	var buf bytes.Buffer
	if err := SortIds(bytes.NewReader(joined), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deriveOpportunity appends an "opportunity" column, inserted just before
// the last column, with value "1" when opportunity_timestamp is non-zero
// and "0" otherwise.
func deriveOpportunity(in io.Reader, out io.Writer) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	oppIdx := header.Index(dataset.ColOppTimestamp)
	if oppIdx < 0 {
		return &ErrColumnMissing{Column: dataset.ColOppTimestamp}
	}
	if len(header) == 0 {
		return &ErrColumnMissing{Column: "(empty header)"}
	}
	insertAt := len(header) - 1

	newHeader := make(csvio.Header, 0, len(header)+1)
	newHeader = append(newHeader, header[:insertAt]...)
	newHeader = append(newHeader, "opportunity")
	newHeader = append(newHeader, header[insertAt:]...)

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(newHeader); err != nil {
		return err
	}
	for {
		row, err := r.ReadRowListAware()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := csvio.CheckWidth(header, row); err != nil {
			return err
		}
		opportunity := boolCell(isTruthy(row[oppIdx]))
		newRow := make(csvio.Row, 0, len(row)+1)
		newRow = append(newRow, row[:insertAt]...)
		newRow = append(newRow, opportunity)
		newRow = append(newRow, row[insertAt:]...)
		if err := w.WriteRow(newRow); err != nil {
			return err
		}
	}
	return w.Flush()
}

// classifyBytes classifies an in-memory buffer's header line without
// consuming the buffer for later use.
func classifyBytes(b []byte) (dataset.Probe, error) {
	header, err := headerOf(b)
	if err != nil {
		return dataset.Probe{}, err
	}
	return dataset.Classify(header)
}

func headerOf(b []byte) (csvio.Header, error) {
	r := csvio.NewReader(bytes.NewReader(b))
	return r.ReadHeader()
}

func nonIDColumns(header csvio.Header) []string {
	out := make([]string, 0, len(header))
	for _, c := range header {
		if c == "id_" {
			continue
		}
		out = append(out, c)
	}
	return out
}
