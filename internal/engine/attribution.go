package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/dataset"
)

// RunAttribution is the Attribution Orchestrator: join against the spine,
// group duplicate id-rows into list columns, pad those lists to
// padding_size, and rename the two primary columns to their plural form for
// the attribution game's consumption.
//
// As in RunLift, protocol MR_PID treats spineR as an already-joined,
// headered file and skips the join step; data is ignored in that case.
func RunAttribution(cfg Config, data io.Reader, spineR io.Reader, out io.Writer) error {
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

		var buf bytes.Buffer
		if err := IdSwap(bytes.NewReader(dataBytes), spineR, &buf, IdSwapConfig{MaxIDColumnCnt: cfg.MaxIDColumnCnt}); err != nil {
			return err
		}
		joined = buf.Bytes()
	}

	switch kind {
	case dataset.PublisherAttr:
		return runAttribution(cfg, joined, []string{dataset.ColAdID, dataset.ColTimestamp}, out)
	case dataset.PartnerAttr:
		return runAttribution(cfg, joined, []string{dataset.ColConvTimestamp, dataset.ColConvValue}, out)
	default:
		return fmt.Errorf("engine: attribution orchestrator requires an Attribution dataset, got %s", kind)
	}
}

// runAttribution is the shared publisher/partner tail: GroupBy by id_,
// optional id-sort, pad every aggregated column to padding_size, then
// rename pluralCols (the two columns the attribution game reads as lists)
// to their plural form.
func runAttribution(cfg Config, joined []byte, pluralCols []string, out io.Writer) error {
	probe, err := classifyBytes(joined)
	if err != nil {
		return err
	}

	var grouped bytes.Buffer
	if err := GroupBy(bytes.NewReader(joined), &grouped, "id_", probe.Aggregated); err != nil {
		return err
	}

	sorted, err := maybeSortIds(cfg, grouped.Bytes())
	if err != nil {
		return err
	}

	padSpecs := make([]PadSpec, len(probe.Aggregated))
	for i, c := range probe.Aggregated {
		padSpecs[i] = PadSpec{Column: c, Width: cfg.PaddingSize}
	}
	var padded bytes.Buffer
	if err := AddPaddingToCols(bytes.NewReader(sorted), &padded, padSpecs, true); err != nil {
		return err
	}

	return HeaderColumnsToPlural(bytes.NewReader(padded.Bytes()), out, pluralCols)
}
