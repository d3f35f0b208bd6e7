package city

import "github.com/Garsondee/tileframe/internal/gfx"

// TicksDetectionTimeout is how long a building stays flagged after alien
// activity is detected in it.
const TicksDetectionTimeout = 3600

// Species is the minimal crew data the debug overlay needs.
type Species struct {
	Name string
	Icon *gfx.Image
}

// CrewCount is a number of individuals of one species.
type CrewCount struct {
	Species *Species
	Count   int
}

// BuildingID is the entity key of a building.
type BuildingID int

// Building is a city structure occupying a ground rectangle.
type Building struct {
	ID     BuildingID
	Name   string
	Bounds Rect
	// Detected is set while alien activity in the building is flagged.
	Detected bool
	// TicksDetectionTimeOut counts down from TicksDetectionTimeout.
	TicksDetectionTimeOut int
	Crew                  []CrewCount
}

// Detect flags the building and restarts the countdown.
func (b *Building) Detect() {
	b.Detected = true
	b.TicksDetectionTimeOut = TicksDetectionTimeout
}

// Tick advances the detection countdown by one tick.
func (b *Building) Tick() {
	if !b.Detected {
		return
	}
	if b.TicksDetectionTimeOut > 0 {
		b.TicksDetectionTimeOut--
	}
	if b.TicksDetectionTimeOut == 0 {
		b.Detected = false
	}
}
