package world

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/lane-racer/internal/entity"
)

// EntityState is the wire form of one entity.
type EntityState struct {
	Kind    uint8   `msgpack:"k"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	W       float64 `msgpack:"w"`
	H       float64 `msgpack:"h"`
	Lane    int     `msgpack:"lane,omitempty"`
	Variant uint8   `msgpack:"v,omitempty"`
}

// PowerUpState is the wire form of a power-up timer.
type PowerUpState struct {
	State     uint8 `msgpack:"s"`
	Remaining int64 `msgpack:"ms"`
}

// Snapshot is a read-only view of the world for observers.
type Snapshot struct {
	Now      int64         `msgpack:"now"`
	Tick     uint64        `msgpack:"tick"`
	Status   uint8         `msgpack:"status"`
	Reason   uint8         `msgpack:"reason"`
	Score    int           `msgpack:"score"`
	Distance float64       `msgpack:"distance"`
	Fuel     float64       `msgpack:"fuel"`
	MaxFuel  float64       `msgpack:"max_fuel"`
	Ghost    PowerUpState  `msgpack:"ghost"`
	Weapon   PowerUpState  `msgpack:"weapon"`
	Player   EntityState   `msgpack:"player"`
	Entities []EntityState `msgpack:"entities"`
}

// Snapshot captures the current world state.
func (w *World) Snapshot() Snapshot {
	p := w.Player.Player
	s := Snapshot{
		Now:      w.now,
		Tick:     w.ticks,
		Status:   uint8(w.status),
		Reason:   uint8(w.reason),
		Score:    w.score,
		Distance: w.track.Distance,
		Fuel:     p.Fuel,
		MaxFuel:  p.MaxFuel,
		Ghost:    PowerUpState{State: uint8(p.Ghost.State), Remaining: p.Ghost.Remaining(w.now)},
		Weapon:   PowerUpState{State: uint8(p.Weapon.State), Remaining: p.Weapon.Remaining(w.now)},
		Player:   entityState(w.Player),
		Entities: make([]EntityState, 0, len(w.Obstacles)+len(w.Pickups)+len(w.Projectiles)),
	}
	for _, group := range [][]*entity.Entity{w.Obstacles, w.Pickups, w.Projectiles} {
		for _, e := range group {
			if e.Alive {
				s.Entities = append(s.Entities, entityState(e))
			}
		}
	}
	return s
}

// Marshal encodes the snapshot with msgpack.
func (s Snapshot) Marshal() ([]byte, error) {
	return msgpack.Marshal(s)
}

// UnmarshalSnapshot decodes a msgpack snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}

func entityState(e *entity.Entity) EntityState {
	st := EntityState{Kind: uint8(e.Kind), X: e.Pos.X, Y: e.Pos.Y, W: e.W, H: e.H}
	switch {
	case e.Obstacle != nil:
		st.Lane = e.Obstacle.Lane
		st.Variant = uint8(e.Obstacle.Variant)
	case e.Pickup != nil:
		st.Lane = e.Pickup.Lane
	}
	return st
}
