package domain

// RepairType classifies the requested repair
type RepairType string

const (
	RepairTireTube RepairType = "tire_tube"
	RepairChain    RepairType = "chain"
	RepairBrakes   RepairType = "brakes"
	RepairGears    RepairType = "gears"
	RepairWheel    RepairType = "wheel"
	RepairOther    RepairType = "other"
)

// ValidRepairType reports whether t is a known repair type.
func ValidRepairType(t RepairType) bool {
	switch t {
	case RepairTireTube, RepairChain, RepairBrakes, RepairGears, RepairWheel, RepairOther:
		return true
	}
	return false
}

// Wheel positions
const (
	WheelFront = "front"
	WheelRear  = "rear"
)

// Bike types
const (
	BikeCity  = "city"
	BikeRoad  = "road"
	BikeOther = "other"
)

// Brake types
const (
	BrakeRim  = "rim"
	BrakeDisc = "disc"
)

// RepairDetails carries the sub-answers of the intake form. Unanswered
// fields stay empty and fall back to the type-level default duration.
type RepairDetails struct {
	WheelPosition string
	BikeType      string
	BrakeType     string
	Description   string
}

// typeDefaultMinutes is the duration used when sub-answers do not refine it.
var typeDefaultMinutes = map[RepairType]int{
	RepairTireTube: 45,
	RepairChain:    45,
	RepairBrakes:   45,
	RepairGears:    45,
	RepairWheel:    60,
	RepairOther:    45,
}

// RepairDuration maps a repair type plus sub-answers to an estimated
// duration in minutes. The mapping is pure: same answers, same duration.
//
//	tire_tube: front 30; rear+city 60; rear+road 40; otherwise 45
//	brakes:    rim 45; disc 60; otherwise 45
//	wheel:     60; every other type defaults to 45
func RepairDuration(t RepairType, details RepairDetails) int {
	switch t {
	case RepairTireTube:
		switch details.WheelPosition {
		case WheelFront:
			return 30
		case WheelRear:
			switch details.BikeType {
			case BikeCity:
				return 60
			case BikeRoad:
				return 40
			}
		}
	case RepairBrakes:
		switch details.BrakeType {
		case BrakeRim:
			return 45
		case BrakeDisc:
			return 60
		}
	}

	if d, ok := typeDefaultMinutes[t]; ok {
		return d
	}
	return typeDefaultMinutes[RepairOther]
}
