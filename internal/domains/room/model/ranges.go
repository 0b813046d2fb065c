package model

import (
	"fmt"
)

// RoomRange is an inclusive span of room numbers used by batch creation.
type RoomRange struct {
	Start int `json:"start" validate:"required,gt=0"`
	End   int `json:"end" validate:"required,gt=0"`
}

func (r RoomRange) Validate() error {
	if r.Start <= 0 || r.End <= 0 {
		return fmt.Errorf("room numbers must be positive, got [%d, %d]", r.Start, r.End)
	}

	if r.Start > r.End {
		return fmt.Errorf("range start %d exceeds end %d", r.Start, r.End)
	}

	return nil
}

func (r RoomRange) Overlaps(other RoomRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// ValidateRanges checks a batch-creation configuration: every range well
// formed, no two ranges overlapping, and at least one room in the union.
// Any violation fails the whole batch.
func ValidateRanges(ranges []RoomRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("at least one room range is required")
	}

	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return fmt.Errorf("ranges [%d, %d] and [%d, %d] overlap",
					ranges[i].Start, ranges[i].End, ranges[j].Start, ranges[j].End)
			}
		}
	}

	return nil
}

// ExpandRanges lists every room number covered by the ranges, in input order.
func ExpandRanges(ranges []RoomRange) []int {
	numbers := []int{}

	for _, r := range ranges {
		for n := r.Start; n <= r.End; n++ {
			numbers = append(numbers, n)
		}
	}

	return numbers
}
