// Package offline projects the earnings of the time a player was away.
// Nothing but steady-state production is simulated: no attacks, no random
// events and no decay.
package offline

import (
	"math"
	"time"

	"github.com/vovakirdan/netops/internal/config"
)

// Input describes the situation at load or resume time.
type Input struct {
	LastSave     time.Time
	Now          time.Time
	TickInterval time.Duration
	Throughput   float64 // Steady-state credits per tick at current node rates
	Campaign     bool
}

// Result is the projected catch-up.
type Result struct {
	Applied bool
	Away    time.Duration // Capped away time actually credited
	Capped  bool
	Ticks   int
	Credits float64
}

// Estimator projects offline earnings from the balance configuration.
type Estimator struct {
	cfg config.OfflineConfig
}

// NewEstimator creates an estimator.
func NewEstimator(cfg config.OfflineConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate returns the credits earned while away. Short absences and clock
// skew (now before last save) yield an empty result.
func (e *Estimator) Estimate(in Input) Result {
	if in.LastSave.IsZero() || in.TickInterval <= 0 {
		return Result{}
	}
	away := in.Now.Sub(in.LastSave)
	if away < time.Duration(e.cfg.MinAwaySeconds)*time.Second || away <= 0 {
		return Result{}
	}

	capHours, eff := e.cfg.NormalCapHours, e.cfg.NormalEfficiency
	if in.Campaign {
		capHours, eff = e.cfg.CampaignCapHours, e.cfg.CampaignEfficiency
	}

	var res Result
	if limit := time.Duration(capHours * float64(time.Hour)); limit > 0 && away > limit {
		away = limit
		res.Capped = true
	}

	res.Applied = true
	res.Away = away
	res.Ticks = int(away / in.TickInterval)
	rate := in.Throughput
	if math.IsNaN(rate) || rate < 0 {
		rate = 0
	}
	res.Credits = rate * float64(res.Ticks) * eff
	return res
}
