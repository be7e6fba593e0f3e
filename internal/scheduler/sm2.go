// Package scheduler implements the SM-2 spaced repetition algorithm as a
// pure function over per-card scheduling state. It does no I/O; the clock
// is an explicit argument so callers can test it without faking time.
package scheduler

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

const (
	// MinEaseFactor is the floor below which the ease factor never drops,
	// no matter how many consecutive lapses occur.
	MinEaseFactor = 1.3
	// InitialEaseFactor seeds newly created schedules.
	InitialEaseFactor = 2.5
	// SuccessThreshold separates a lapse (quality below) from a successful
	// recall (quality at or above).
	SuccessThreshold = 3
)

// CardState is the scheduling state one card carries for one user.
type CardState struct {
	EaseFactor   float64
	IntervalDays int
	Reps         int
	Lapses       int
	DueAt        time.Time
}

// NewCardState returns the state a card carries before its first review:
// due immediately, default ease, zero interval.
func NewCardState(now time.Time) CardState {
	return CardState{EaseFactor: InitialEaseFactor, DueAt: now}
}

// Sm2 applies a single quality judgment (0-5) at the given time and returns
// the new state along with the chosen interval in days.
//
// A quality below 3 is a lapse: the success streak resets, the lapse counter
// increments, the card comes back in one day, and the ease factor drops by
// 0.2 (floored at MinEaseFactor). A quality of 3 or above grows the interval
// based on the rep count before this review: 1 day for the first success,
// 6 days for the second, then previous interval times the ease factor.
func Sm2(state CardState, quality int, now time.Time) (CardState, int, error) {
	if quality < 0 || quality > 5 {
		return CardState{}, 0, ErrInvalidQuality
	}

	ease := state.EaseFactor
	reps := state.Reps
	lapses := state.Lapses
	var interval int

	if quality < SuccessThreshold {
		reps = 0
		lapses++
		interval = 1
		ease = math.Max(MinEaseFactor, ease-0.2)
	} else {
		reps++
		switch {
		case state.Reps == 0:
			interval = 1
		case state.Reps == 1:
			interval = 6
		default:
			interval = int(math.Round(float64(state.IntervalDays) * ease))
			if interval < 1 {
				interval = 1
			}
		}
		miss := float64(5 - quality)
		ease = math.Max(MinEaseFactor, ease+(0.1-miss*(0.08+miss*0.02)))
	}

	return CardState{
		EaseFactor:   ease,
		IntervalDays: interval,
		Reps:         reps,
		Lapses:       lapses,
		DueAt:        now.Add(time.Duration(interval) * 24 * time.Hour),
	}, interval, nil
}
