package engine

import (
	"errors"
	"time"

	"github.com/vovakirdan/netops/internal/cloudsync"
	"github.com/vovakirdan/netops/internal/events"
	"github.com/vovakirdan/netops/internal/offline"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/save"
)

// ErrNoSaveManager is returned by persistence calls on an engine built
// without a save manager.
var ErrNoSaveManager = errors.New("engine: no save manager configured")

// Load replaces the current game with the stored one, migrating older
// versions, then grants offline earnings and requests a cloud pull.
// A missing or corrupt save leaves a new game in place.
func (e *Engine) Load() (save.LoadInfo, error) {
	if e.saves == nil {
		return save.LoadInfo{}, ErrNoSaveManager
	}
	e.Flush()
	st, info, err := e.saves.Load()
	if err != nil {
		return info, err
	}
	if st == nil {
		e.logger.Info("no save found, starting a new game")
		e.restore(save.NewGameState(e.balance.Economy.StartingCredits))
	} else {
		e.restore(st)
		e.logger.Info("save loaded", "version", info.FromVersion, "migrations", info.Steps, "credits", e.credits)
		e.catchUp(false)
	}
	e.campaign = nil
	e.paused = false
	e.requestPull()
	return info, nil
}

// Save writes the game synchronously. During a campaign level the
// checkpoint is written instead.
func (e *Engine) Save() error {
	if e.saves == nil {
		return ErrNoSaveManager
	}
	e.Flush()
	e.lastSave = e.clock.Now()
	if e.campaign != nil {
		return e.saves.SaveCheckpoint(e.checkpoint())
	}
	return e.saves.Save(e.Export())
}

// Reset deletes every stored save and starts a new game.
func (e *Engine) Reset() error {
	if e.campaign != nil {
		e.endLevel(OutcomeAbandoned, "reset")
	}
	e.restore(save.NewGameState(e.balance.Economy.StartingCredits))
	if e.saves == nil {
		return nil
	}
	e.Flush()
	return e.saves.Reset()
}

// persist writes a deep copy in the background and pushes it to the cloud.
func (e *Engine) persist() {
	if e.saves == nil && e.cloud == nil {
		return
	}
	e.lastSave = e.clock.Now()

	if e.campaign != nil {
		if e.saves == nil {
			return
		}
		cp := e.checkpoint()
		e.background(slotCheckpoint, func(m *save.Manager) error { return m.SaveCheckpoint(cp) })
		return
	}

	st := e.Export()
	if e.saves != nil {
		e.background(slotState, func(m *save.Manager) error { return m.Save(st) })
	}
	e.push(st)
}

// saveSlot names the stored record a background write replaces.
type saveSlot int

const (
	slotState saveSlot = iota
	slotCheckpoint
)

// background runs a save on its own goroutine. Writes are serialized and
// numbered per slot; a write that acquires the lock after a newer write to
// the same slot is dropped, so an older snapshot never lands last.
func (e *Engine) background(slot saveSlot, fn func(*save.Manager) error) {
	m := e.saves
	e.persistSeq++
	seq := e.persistSeq
	e.persistWG.Add(1)
	go func() {
		defer e.persistWG.Done()
		e.persistMu.Lock()
		defer e.persistMu.Unlock()
		if seq < e.persistLast[slot] {
			return
		}
		e.persistLast[slot] = seq
		if err := fn(m); err != nil {
			e.logger.Warn("background save failed", "err", err)
		}
	}()
}

// Flush waits for background saves to finish.
func (e *Engine) Flush() {
	e.persistWG.Wait()
}

// Pause stops the simulation after flushing the save. Pausing twice is a
// no-op.
func (e *Engine) Pause() {
	if e.paused {
		return
	}
	if e.saves != nil {
		if err := e.Save(); err != nil {
			e.logger.Warn("save on pause failed", "err", err)
		}
	}
	e.paused = true
}

// Resume restarts the simulation, granting earnings for the time spent
// paused or suspended.
func (e *Engine) Resume() {
	if !e.paused {
		return
	}
	e.paused = false
	e.catchUp(e.campaign != nil)
}

// Paused reports whether the simulation is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// catchUp grants offline earnings since the last save.
func (e *Engine) catchUp(campaign bool) {
	now := e.clock.Now()
	res := e.estimator.Estimate(offline.Input{
		LastSave:     e.lastSave,
		Now:          now,
		TickInterval: e.balance.Tick.Interval(),
		Throughput:   e.pipe.Throughput(pipeline.Neutral()),
		Campaign:     campaign,
	})
	if !res.Applied {
		return
	}
	if c := e.campaign; c != nil && c.params.TimeLimitTicks > 0 {
		// Offline time counts against the level clock; earnings past the
		// limit are not credited.
		left := max(0, c.params.TimeLimitTicks-c.ticks)
		if res.Ticks > left {
			res.Credits *= float64(left) / float64(res.Ticks)
			res.Ticks = left
		}
	}
	e.earn(res.Credits)
	e.tick += int64(res.Ticks)
	e.playSeconds += res.Away.Seconds()
	e.lastSave = now
	if e.campaign != nil {
		e.campaign.ticks += res.Ticks
	}
	e.logger.Info("offline earnings", "credits", res.Credits, "ticks", res.Ticks, "capped", res.Capped)
	e.emit(events.OfflineEarnings{Credits: res.Credits, Ticks: int64(res.Ticks)})
	e.checkLevel()
}

func (e *Engine) progress() cloudsync.Progress {
	return cloudsync.Progress{TotalEarned: e.totalEarned, TickCount: int(e.tick)}
}

func (e *Engine) push(st *save.GameState) {
	if e.cloud == nil {
		return
	}
	data, err := save.Encode(st)
	if err != nil {
		e.logger.Warn("cannot encode cloud snapshot", "err", err)
		return
	}
	e.cloud.Push(cloudsync.Snapshot{
		Progress: cloudsync.Progress{TotalEarned: st.TotalEarned, TickCount: int(st.TickCount)},
		Data:     data,
		SavedAt:  e.clock.Now().Unix(),
	})
}

func (e *Engine) requestPull() {
	if e.cloud != nil {
		e.cloud.Pull(e.progress())
	}
}

// SyncNow requests a cloud pull; the result is applied on a later tick.
func (e *Engine) SyncNow() bool {
	if e.cloud == nil {
		return false
	}
	return e.cloud.Pull(e.progress())
}

// applyCloudResults consumes finished transfers. Remote state is never
// adopted during a campaign level.
func (e *Engine) applyCloudResults() {
	if e.cloud == nil {
		return
	}
	for _, r := range e.cloud.Drain() {
		if r.Err != nil || r.Op != cloudsync.OpPull {
			continue
		}
		if e.campaign != nil {
			continue
		}
		switch cloudsync.Decide(e.progress(), r.Requested, r.Snapshot) {
		case cloudsync.Adopt:
			var st save.GameState
			if err := save.Decode(r.Snapshot.Data, &st); err != nil {
				e.logger.Warn("discarding undecodable cloud snapshot", "err", err)
				continue
			}
			e.restore(&st)
			e.lastSave = e.clock.Now()
			e.logger.Info("adopted cloud save", "revision", r.Revision, "earned", st.TotalEarned)
			if e.saves != nil {
				adopted := e.Export()
				e.background(slotState, func(m *save.Manager) error { return m.Save(adopted) })
			}
		case cloudsync.Upload:
			e.push(e.Export())
		}
	}
}

// LastSave returns the time of the last save, zero if never saved.
func (e *Engine) LastSave() time.Time {
	return e.lastSave
}
