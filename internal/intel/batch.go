package intel

import "math"

const (
	// MinBatchReports is the smallest batch; smaller sends go out immediately.
	MinBatchReports  = 11
	batchLatencyRate = 0.5
)

// BatchUpload spreads a large send over several ticks.
type BatchUpload struct {
	Total        int
	Sent         int
	LatencyTicks int
	Elapsed      int
	carry        float64
}

// NewBatchUpload creates a batch for total reports. It returns nil when
// total is below MinBatchReports.
func NewBatchUpload(total int) *BatchUpload {
	if total < MinBatchReports {
		return nil
	}
	return &BatchUpload{
		Total:        total,
		LatencyTicks: int(math.Ceil(float64(total) * batchLatencyRate)),
	}
}

// PerTick returns total / latency.
func (b *BatchUpload) PerTick() float64 {
	if b.LatencyTicks <= 0 {
		return float64(b.Total)
	}
	return float64(b.Total) / float64(b.LatencyTicks)
}

// Progress returns sent / total in [0, 1].
func (b *BatchUpload) Progress() float64 {
	if b.Total == 0 {
		return 1
	}
	return float64(b.Sent) / float64(b.Total)
}

// BatchStep is the outcome of one batch tick.
type BatchStep struct {
	Results []*ReportResult
	Done    bool
	Early   bool // Footprint ran out before the batch finished
}

// AdvanceBatch sends this tick's share of the batch.
func (in *Intelligence) AdvanceBatch(b *BatchUpload, intelMultiplier float64) BatchStep {
	var step BatchStep
	b.Elapsed++
	b.carry += b.PerTick()
	quota := int(math.Floor(b.carry))
	if b.Elapsed >= b.LatencyTicks {
		quota = b.Total - b.Sent
	}
	b.carry -= float64(quota)

	for i := 0; i < quota && b.Sent < b.Total; i++ {
		res := in.SendReport(intelMultiplier)
		if res == nil {
			step.Done = true
			step.Early = true
			return step
		}
		b.Sent++
		step.Results = append(step.Results, res)
	}
	step.Done = b.Sent >= b.Total
	return step
}

// SendAll sends every affordable report. Up to MinBatchReports−1 go out
// immediately; more start a batch upload instead.
func (in *Intelligence) SendAll(intelMultiplier float64) ([]*ReportResult, *BatchUpload) {
	pending := in.PendingReports()
	if b := NewBatchUpload(pending); b != nil {
		return nil, b
	}
	var out []*ReportResult
	for i := 0; i < pending; i++ {
		res := in.SendReport(intelMultiplier)
		if res == nil {
			break
		}
		out = append(out, res)
	}
	return out, nil
}
