package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairDuration(t *testing.T) {
	tests := []struct {
		name    string
		repair  RepairType
		details RepairDetails
		want    int
	}{
		{
			name:    "front tire tube is a quick fix",
			repair:  RepairTireTube,
			details: RepairDetails{WheelPosition: WheelFront},
			want:    30,
		},
		{
			name:    "rear tire tube on a city bike",
			repair:  RepairTireTube,
			details: RepairDetails{WheelPosition: WheelRear, BikeType: BikeCity},
			want:    60,
		},
		{
			name:    "rear tire tube on a road bike",
			repair:  RepairTireTube,
			details: RepairDetails{WheelPosition: WheelRear, BikeType: BikeRoad},
			want:    40,
		},
		{
			name:    "rear tire tube without bike type falls back",
			repair:  RepairTireTube,
			details: RepairDetails{WheelPosition: WheelRear},
			want:    45,
		},
		{
			name:    "tire tube without answers falls back",
			repair:  RepairTireTube,
			details: RepairDetails{},
			want:    45,
		},
		{
			name:    "rim brakes",
			repair:  RepairBrakes,
			details: RepairDetails{BrakeType: BrakeRim},
			want:    45,
		},
		{
			name:    "disc brakes",
			repair:  RepairBrakes,
			details: RepairDetails{BrakeType: BrakeDisc},
			want:    60,
		},
		{
			name:    "wheel work takes an hour",
			repair:  RepairWheel,
			details: RepairDetails{},
			want:    60,
		},
		{
			name:    "chain",
			repair:  RepairChain,
			details: RepairDetails{},
			want:    45,
		},
		{
			name:    "gears",
			repair:  RepairGears,
			details: RepairDetails{},
			want:    45,
		},
		{
			name:    "other",
			repair:  RepairOther,
			details: RepairDetails{Description: "creaking noise"},
			want:    45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairDuration(tt.repair, tt.details))
		})
	}
}

func TestRepairDuration_IsDeterministic(t *testing.T) {
	details := RepairDetails{WheelPosition: WheelRear, BikeType: BikeCity}
	first := RepairDuration(RepairTireTube, details)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RepairDuration(RepairTireTube, details))
	}
}

func TestValidRepairType(t *testing.T) {
	assert.True(t, ValidRepairType(RepairTireTube))
	assert.True(t, ValidRepairType(RepairOther))
	assert.False(t, ValidRepairType(RepairType("suspension")))
	assert.False(t, ValidRepairType(RepairType("")))
}
