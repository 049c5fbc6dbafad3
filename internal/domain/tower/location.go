package tower

// Behavior selects which subsystem rules apply when residents act at a
// location. It is the single polymorphism point for locations: an
// enum-keyed rule table, not per-location types.
type Behavior string

const (
	BehaviorNeutral Behavior = "neutral" // nothing special
	BehaviorSocial  Behavior = "social"  // party-friendly, open air
	BehaviorKitchen Behavior = "kitchen" // cooking allowed
	BehaviorFlaky   Behavior = "flaky"   // doors sometimes aren't there
	BehaviorFork    Behavior = "fork"    // hallway always splits in two
	BehaviorEcho    Behavior = "echo"    // conversations multiply
	BehaviorVoid    Behavior = "void"    // exploration bonus, sanity drain
)

const LocationLobby = "lobby"

type Location struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Floor       string   `json:"floor"`
	Behavior    Behavior `json:"behavior"`
	Description string   `json:"description"`
}

// Reachable reports whether a resident standing at from may move to dest.
// The void floor is only reachable from the lobby; everything else is one
// hop away from everywhere.
func Reachable(from, dest Location) bool {
	if from.ID == dest.ID {
		return false
	}
	if dest.Behavior == BehaviorVoid {
		return from.ID == LocationLobby
	}
	if from.Behavior == BehaviorVoid {
		return dest.ID == LocationLobby
	}
	return true
}

// MoodDrift is the tick-time mood pull a location behavior exerts on the
// residents standing there.
var MoodDrift = map[Behavior]Mood{
	BehaviorFlaky: MoodAnxious,
	BehaviorFork:  MoodScheming,
	BehaviorEcho:  MoodExcited,
	BehaviorVoid:  MoodSuspicious,
}
