package resolve

import "github.com/vovakirdan/lane-racer/internal/entity"

// Activate starts or refreshes a timed effect.
// Re-activating an active effect restarts its window instead of stacking.
func Activate(t *entity.PowerUpTimer, now, durationMS, blinkMS int64) {
	t.State = entity.EffectActive
	t.StartedAt = now
	t.EndTime = now + durationMS
	t.BlinkThreshold = blinkMS
	Evaluate(t, now)
}

// Evaluate advances the effect state machine to now and returns the new state.
//
//	Inactive -> Active     on Activate
//	Active   -> Blinking   once remaining < blink threshold
//	any      -> Inactive   once remaining <= 0
func Evaluate(t *entity.PowerUpTimer, now int64) entity.EffectState {
	if t.State == entity.EffectInactive {
		return t.State
	}
	remaining := t.EndTime - now
	switch {
	case remaining <= 0:
		t.State = entity.EffectInactive
	case remaining < t.BlinkThreshold:
		t.State = entity.EffectBlinking
	default:
		t.State = entity.EffectActive
	}
	return t.State
}

// IsActive reports whether the effect still applies at now.
// Blinking counts as active.
func IsActive(t entity.PowerUpTimer, now int64) bool {
	return t.State != entity.EffectInactive && t.EndTime > now
}

// Visible reports whether a blinking effect is in the visible half of its
// blink cycle. Non-blinking effects are always visible.
func Visible(t entity.PowerUpTimer, now, intervalMS int64) bool {
	if t.State != entity.EffectBlinking || intervalMS <= 0 {
		return true
	}
	return (now/intervalMS)%2 == 0
}

// UpdateEffects evaluates every timed effect on the player.
func UpdateEffects(player *entity.Entity, now int64) {
	Evaluate(&player.Player.Ghost, now)
	Evaluate(&player.Player.Weapon, now)
}
