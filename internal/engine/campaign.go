package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/save"
)

// campaignRun is the state of the level being played. The regular game is
// parked in home and restored when the level ends.
type campaignRun struct {
	params config.LevelParams
	name   string
	runID  string
	earned float64
	ticks  int
	home   *save.GameState
}

func (e *Engine) levelConfig(id int) (config.LevelConfig, bool) {
	for _, l := range e.difficulty.Levels() {
		if l.ID == id {
			return l, true
		}
	}
	return config.LevelConfig{}, false
}

// InCampaign reports whether a level is being played.
func (e *Engine) InCampaign() bool {
	return e.campaign != nil
}

// StartLevel parks the regular game and starts a campaign level from
// scratch. Any previous checkpoint is discarded.
func (e *Engine) StartLevel(levelID int, mode config.Mode) error {
	if e.campaign != nil {
		return fmt.Errorf("engine: level %d already in progress", e.campaign.params.LevelID)
	}
	params, ok := e.difficulty.Params(levelID, mode)
	if !ok {
		return fmt.Errorf("engine: unknown level %d", levelID)
	}
	lvl, _ := e.levelConfig(levelID)

	home := e.parkHome()
	e.restore(save.NewGameState(lvl.StartingCredits))
	e.campaign = &campaignRun{
		params: params,
		name:   lvl.Name,
		runID:  e.newID(),
		home:   home,
	}
	e.paused = false
	e.logger.Info("level started", "level", levelID, "name", lvl.Name, "mode", mode)
	if e.saves != nil {
		e.persistMu.Lock()
		err := e.saves.ClearCheckpoint()
		e.persistMu.Unlock()
		if err != nil {
			e.logger.Warn("cannot clear old checkpoint", "err", err)
		}
	}
	return nil
}

// ResumeLevel continues the level stored in the campaign checkpoint.
// Returns false when there is no checkpoint.
func (e *Engine) ResumeLevel() (bool, error) {
	if e.campaign != nil {
		return false, fmt.Errorf("engine: level %d already in progress", e.campaign.params.LevelID)
	}
	if e.saves == nil {
		return false, ErrNoSaveManager
	}
	e.Flush()
	cp, err := e.saves.LoadCheckpoint()
	if err != nil || cp == nil {
		return false, err
	}
	mode := config.ModeNormal
	if cp.Insane {
		mode = config.ModeInsane
	}
	params, ok := e.difficulty.Params(cp.LevelID, mode)
	if !ok {
		e.logger.Warn("checkpoint for unknown level", "level", cp.LevelID)
		return false, nil
	}
	lvl, _ := e.levelConfig(cp.LevelID)

	home := e.parkHome()
	e.restore(&save.GameState{
		Credits:       cp.Credits,
		TotalEarned:   cp.EarnedThisLevel,
		TickCount:     cp.TickCount,
		Units:         cp.Units,
		Buffer:        cp.Buffer,
		Firewall:      cp.Firewall,
		UnlockedUnits: cp.UnlockedUnits,
		Defense:       cp.Defense,
		Threat:        cp.Threat,
		Intel:         cp.Intel,
	})
	e.campaign = &campaignRun{
		params: params,
		name:   lvl.Name,
		runID:  e.newID(),
		earned: cp.EarnedThisLevel,
		ticks:  cp.TicksElapsed,
		home:   home,
	}
	e.paused = false
	if cp.SavedUnix > 0 {
		e.lastSave = time.Unix(cp.SavedUnix, 0)
	}
	e.logger.Info("level resumed", "level", cp.LevelID, "ticks", cp.TicksElapsed, "earned", cp.EarnedThisLevel)
	e.catchUp(true)
	return true, nil
}

// parkHome saves the regular game and returns a copy to restore later.
func (e *Engine) parkHome() *save.GameState {
	if e.saves != nil {
		if err := e.Save(); err != nil {
			e.logger.Warn("cannot save before level", "err", err)
		}
	}
	return e.Export()
}

// AbandonLevel ends the current level without completing it.
func (e *Engine) AbandonLevel() bool {
	if e.campaign == nil {
		return false
	}
	e.endLevel(OutcomeAbandoned, "abandoned")
	return true
}

// checkLevel completes or fails the level once its goal or time limit is hit.
func (e *Engine) checkLevel() {
	c := e.campaign
	if c == nil {
		return
	}
	switch {
	case c.earned >= c.params.GoalCredits:
		e.endLevel(OutcomeComplete, "")
	case c.params.TimeLimitTicks > 0 && c.ticks >= c.params.TimeLimitTicks:
		e.endLevel(OutcomeFailed, "time limit reached")
	}
}

// endLevel records the run, clears the checkpoint and restores the
// regular game before notifying the host.
func (e *Engine) endLevel(outcome, reason string) {
	c := e.campaign
	stats := LevelStats{
		LevelID:         c.params.LevelID,
		Name:            c.name,
		Mode:            c.params.Mode,
		Ticks:           c.ticks,
		Earned:          c.earned,
		Credits:         e.credits,
		AttacksSurvived: e.threat.AttacksSurvived,
		DamageTaken:     e.stats.DamageTaken,
		ReportsSent:     e.intel.ReportsSent,
	}
	e.recordRun(RunResult{
		RunID:           c.runID,
		LevelID:         stats.LevelID,
		Insane:          stats.Mode == config.ModeInsane,
		Outcome:         outcome,
		Reason:          reason,
		Credits:         stats.Credits,
		Earned:          stats.Earned,
		Ticks:           stats.Ticks,
		AttacksSurvived: stats.AttacksSurvived,
		ReportsSent:     stats.ReportsSent,
	})
	if e.saves != nil {
		e.background(slotCheckpoint, func(m *save.Manager) error { return m.ClearCheckpoint() })
	}

	e.campaign = nil
	e.restore(c.home)
	e.lastSave = e.clock.Now()
	e.logger.Info("level ended", "level", stats.LevelID, "outcome", outcome, "ticks", stats.Ticks, "earned", stats.Earned)

	switch outcome {
	case OutcomeComplete:
		e.cue(CueLevelComplete)
		e.host.levelComplete(stats)
	case OutcomeFailed:
		e.cue(CueLevelFailed)
		e.host.levelFailed(reason)
	}
}

// recordRun hands the result to the run saver without blocking the tick.
func (e *Engine) recordRun(r RunResult) {
	if e.runs == nil {
		return
	}
	saver := e.runs
	e.persistWG.Add(1)
	go func() {
		defer e.persistWG.Done()
		if err := saver.SaveRunResult(r); err != nil {
			e.logger.Warn("cannot record run", "level", r.LevelID, "err", err)
		}
	}()
}

// checkpoint captures the level in progress.
func (e *Engine) checkpoint() *save.LevelCheckpoint {
	st := e.Export()
	c := e.campaign
	return &save.LevelCheckpoint{
		LevelID:         c.params.LevelID,
		Insane:          c.params.Mode == config.ModeInsane,
		SavedUnix:       e.lastSave.Unix(),
		Credits:         st.Credits,
		EarnedThisLevel: c.earned,
		TicksElapsed:    c.ticks,
		TickCount:       st.TickCount,
		Units:           st.Units,
		Buffer:          st.Buffer,
		Firewall:        st.Firewall,
		UnlockedUnits:   st.UnlockedUnits,
		Defense:         st.Defense,
		Threat:          st.Threat,
		Intel:           st.Intel,
	}
}
