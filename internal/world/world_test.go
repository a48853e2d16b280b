package world

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
	"github.com/vovakirdan/lane-racer/internal/resolve"
)

// quietConfig disables every spawn so a test controls the road contents.
func quietConfig() config.Config {
	cfg := config.Default()
	cfg.Obstacles.InitialDelayMS = 1 << 40
	cfg.Pickups.Fuel.Rate = 0
	cfg.Pickups.Ghost.Rate = 0
	cfg.Pickups.Weapon.Rate = 0
	return cfg
}

func holding(intents ...core.Intent) core.Input {
	var in core.Input
	for _, i := range intents {
		in.Hold(i)
	}
	return in
}

func TestFuelRunsOutOnTheTickAfterEmpty(t *testing.T) {
	cfg := quietConfig()
	cfg.Player.FuelDrain = 5
	w := New(cfg, 1, 0)
	w.Player.Player.Fuel = 15

	wantFuel := []float64{10, 5, 0, 0}
	wantTerminal := []bool{false, false, false, true}
	now := int64(0)
	for i := range wantFuel {
		now += 1000
		res := w.Tick(now, time.Second, holding(core.IntentLeft))

		if got := w.Player.Player.Fuel; got != wantFuel[i] {
			t.Errorf("tick %d: Fuel = %v, expected %v", i+1, got, wantFuel[i])
		}
		if res.Terminal != wantTerminal[i] {
			t.Errorf("tick %d: Terminal = %v, expected %v", i+1, res.Terminal, wantTerminal[i])
		}
	}
	if w.Reason() != resolve.ReasonFuelOut {
		t.Errorf("Reason = %v, expected fuel_out", w.Reason())
	}
	if len(w.Effects) != 0 {
		t.Errorf("running out of fuel should not explode, got %d effects", len(w.Effects))
	}
}

func TestNoFuelBurnWithoutSteering(t *testing.T) {
	w := New(quietConfig(), 1, 0)
	for i := 1; i <= 60; i++ {
		w.Tick(int64(i)*16, 16*time.Millisecond, core.Input{})
	}
	if w.Player.Player.Fuel != w.Player.Player.MaxFuel {
		t.Errorf("Fuel = %v, expected a full tank with no steering", w.Player.Player.Fuel)
	}
}

func TestScoreFromDistance(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)

	res := w.Tick(1000, time.Second, core.Input{})
	want := int(cfg.Track.ScrollSpeed / cfg.Track.DistancePerPoint)
	if res.Score != want || res.Delta != want {
		t.Errorf("Score = %d (delta %d), expected %d", res.Score, res.Delta, want)
	}
}

func TestCollisionFreezesWorld(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)
	w.Tick(16, 16*time.Millisecond, core.Input{})

	o := entity.NewObstacle(cfg, 0, 300, entity.VariantCar)
	o.Pos = w.Player.Pos
	w.Obstacles = append(w.Obstacles, o)

	res := w.Tick(32, 16*time.Millisecond, core.Input{})
	if !res.Terminal || res.Reason != resolve.ReasonCollision {
		t.Fatalf("result = %+v, expected terminal collision", res)
	}
	if w.Status() != StatusFrozen || w.TerminalAt() != 32 {
		t.Errorf("Status = %v at %d, expected frozen at 32", w.Status(), w.TerminalAt())
	}
	if len(w.Effects) != 1 {
		t.Fatalf("Effects = %d, expected one crash explosion", len(w.Effects))
	}
	if !o.Frozen || !w.Player.Frozen {
		t.Error("freeze should reach every simulation entity")
	}

	score := w.Score()
	y := o.Pos.Y
	for i := 3; i < 100; i++ {
		res := w.Tick(int64(i)*16, 16*time.Millisecond, holding(core.IntentRight))
		if res.Score != score || res.Delta != 0 || res.Terminal {
			t.Fatalf("tick %d after freeze: %+v, expected unchanged score %d", i, res, score)
		}
	}
	if o.Pos.Y != y {
		t.Errorf("frozen obstacle moved from %v to %v", y, o.Pos.Y)
	}
	if len(w.Effects) != 0 {
		t.Errorf("explosion should finish while frozen, %d effects left", len(w.Effects))
	}
}

func TestGhostSurvivesCollision(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)
	resolve.Activate(&w.Player.Player.Ghost, 0, cfg.Pickups.Ghost.DurationMS, cfg.Pickups.Ghost.BlinkMS)

	o := entity.NewObstacle(cfg, 0, 0, entity.VariantCar)
	o.Pos = w.Player.Pos
	w.Obstacles = append(w.Obstacles, o)

	res := w.Tick(16, 16*time.Millisecond, core.Input{})
	if res.Terminal {
		t.Error("ghost should pass through obstacles")
	}
}

func TestFiringDestroysObstacle(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)
	resolve.Activate(&w.Player.Player.Weapon, 0, cfg.Pickups.Weapon.DurationMS, cfg.Pickups.Weapon.BlinkMS)

	o := entity.NewObstacle(cfg, 0, 0, entity.VariantBus)
	o.Obstacle.BaseX = w.Player.Pos.X
	o.Pos.X = w.Player.Pos.X
	o.Pos.Y = w.Player.Pos.Y - 200
	w.Obstacles = append(w.Obstacles, o)

	var events []string
	now := int64(0)
	for i := 0; i < 30 && o.Alive; i++ {
		now += 16
		res := w.Tick(now, 16*time.Millisecond, holding(core.IntentFire))
		events = append(events, res.Events...)
	}
	if o.Alive {
		t.Fatal("obstacle in front of the player should be shot down")
	}
	if w.Player.Player.Bonus != cfg.Weapon.Bonus {
		t.Errorf("Bonus = %d, expected %d", w.Player.Player.Bonus, cfg.Weapon.Bonus)
	}
	if !contains(events, resolve.EventWeaponFired) || !contains(events, resolve.EventObstacleDestroyed) {
		t.Errorf("Events = %v, expected weapon_fired and obstacle_destroyed", events)
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config.Default()
	run := func() Snapshot {
		w := New(cfg, 12345, 0)
		for i := 1; i <= 1200; i++ {
			var in core.Input
			if (i/90)%2 == 0 {
				in.Hold(core.IntentLeft)
			} else {
				in.Hold(core.IntentRight)
			}
			w.Tick(int64(i)*16, 16*time.Millisecond, in)
		}
		return w.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs diverged:\n%+v\n%+v", a, b)
	}
}

func TestSnapshotEncodes(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)
	w.Obstacles = append(w.Obstacles, entity.NewObstacle(cfg, 1, 300, entity.VariantAmbulance))
	w.Tick(16, 16*time.Millisecond, core.Input{})

	data, err := w.Snapshot().Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	s, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() failed: %v", err)
	}
	if len(s.Entities) != 1 || s.Entities[0].Lane != 1 {
		t.Errorf("Entities = %+v, expected one obstacle in lane 1", s.Entities)
	}
}

type recordingRenderer struct {
	entities []*entity.Entity
	colors   []core.Color
	texts    []string
}

func (r *recordingRenderer) FillBackground(core.Color)        {}
func (r *recordingRenderer) DrawRect(core.Bounds, core.Color) {}
func (r *recordingRenderer) Dim(float64)                      {}
func (r *recordingRenderer) DrawEntity(e *entity.Entity, c core.Color) {
	r.entities = append(r.entities, e)
	r.colors = append(r.colors, c)
}
func (r *recordingRenderer) DrawText(_, _ float64, text string, _ core.Color) {
	r.texts = append(r.texts, text)
}
func (r *recordingRenderer) DrawTextCentered(_ float64, text string, _ core.Color) {
	r.texts = append(r.texts, text)
}

func TestDrawBlinkingGhost(t *testing.T) {
	cfg := quietConfig()
	w := New(cfg, 1, 0)
	p := w.Player.Player
	resolve.Activate(&p.Ghost, 0, 1000, 800)
	w.now = 400
	resolve.Evaluate(&p.Ghost, w.now) // 600ms left, blinking

	var r recordingRenderer
	w.Draw(&r)
	visible := containsEntity(r.entities, w.Player)

	w.now = 600
	var r2 recordingRenderer
	w.Draw(&r2)
	if visible == containsEntity(r2.entities, w.Player) {
		t.Error("blinking ghost should toggle visibility between blink intervals")
	}
}

func TestFuelColor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  core.Color
	}{
		{1.0, core.ColorGreen},
		{0.61, core.ColorGreen},
		{0.6, core.ColorYellow},
		{0.31, core.ColorYellow},
		{0.3, core.ColorRed},
		{0, core.ColorRed},
	}
	for _, tc := range tests {
		if got := FuelColor(tc.ratio); got != tc.want {
			t.Errorf("FuelColor(%v) = %v, expected %v", tc.ratio, got, tc.want)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsEntity(list []*entity.Entity, e *entity.Entity) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}
