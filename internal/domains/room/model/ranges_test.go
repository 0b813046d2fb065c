package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/room/model"
)

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		ranges  []model.RoomRange
		wantErr bool
	}{
		{
			name:    "empty configuration",
			ranges:  []model.RoomRange{},
			wantErr: true,
		},
		{
			name:    "single valid range",
			ranges:  []model.RoomRange{{Start: 101, End: 105}},
			wantErr: false,
		},
		{
			name:    "start after end",
			ranges:  []model.RoomRange{{Start: 110, End: 101}},
			wantErr: true,
		},
		{
			name:    "non-positive start",
			ranges:  []model.RoomRange{{Start: 0, End: 5}},
			wantErr: true,
		},
		{
			name:    "overlapping ranges",
			ranges:  []model.RoomRange{{Start: 1, End: 10}, {Start: 5, End: 15}},
			wantErr: true,
		},
		{
			name:    "adjacent ranges do not overlap",
			ranges:  []model.RoomRange{{Start: 1, End: 10}, {Start: 11, End: 20}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateRanges(tt.ranges)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandRanges(t *testing.T) {
	numbers := model.ExpandRanges([]model.RoomRange{{Start: 1, End: 10}, {Start: 11, End: 20}})
	assert.Len(t, numbers, 20)
	assert.Equal(t, 1, numbers[0])
	assert.Equal(t, 20, numbers[19])

	numbers = model.ExpandRanges([]model.RoomRange{{Start: 101, End: 105}})
	assert.Equal(t, []int{101, 102, 103, 104, 105}, numbers)
}
