package readings

import (
	"math/rand"
	"testing"
	"time"
)

func sampleReadings() []Reading {
	base := time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC)
	var list []Reading
	for day := 0; day < 3; day++ {
		for hour := 0; hour < 24; hour += 2 {
			list = append(list, Reading{
				SentAt:        base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
				ConsumptionKW: float64(hour) * 0.1,
			})
		}
	}
	return list
}

func TestGroupByDaySortedKeys(t *testing.T) {
	keys, byDay := GroupByDay(sampleReadings())
	if len(keys) != 3 {
		t.Fatalf("keys = %d, want 3", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("keys not ascending: %v", keys)
		}
	}
	for _, key := range keys {
		if len(byDay[key]) != 12 {
			t.Fatalf("day %s has %d readings, want 12", key, len(byDay[key]))
		}
	}
}

func TestGroupByDayStableUnderPermutation(t *testing.T) {
	original := sampleReadings()
	shuffled := make([]Reading, len(original))
	copy(shuffled, original)
	rng := rand.New(rand.NewSource(3))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	keysA, byDayA := GroupByDay(original)
	keysB, byDayB := GroupByDay(shuffled)

	if len(keysA) != len(keysB) {
		t.Fatalf("key counts differ: %d vs %d", len(keysA), len(keysB))
	}
	for i := range keysA {
		if keysA[i] != keysB[i] {
			t.Fatalf("key %d differs: %s vs %s", i, keysA[i], keysB[i])
		}
	}
	for _, key := range keysA {
		bucketA, bucketB := byDayA[key], byDayB[key]
		if len(bucketA) != len(bucketB) {
			t.Fatalf("day %s bucket sizes differ", key)
		}
		for i := range bucketA {
			if !bucketA[i].SentAt.Equal(bucketB[i].SentAt) {
				t.Fatalf("day %s member %d differs after shuffle", key, i)
			}
		}
	}
}

func TestDayKeyUsesCalendarDate(t *testing.T) {
	r := Reading{SentAt: time.Date(2025, time.July, 9, 23, 59, 0, 0, time.UTC)}
	if r.DayKey() != "2025-07-09" {
		t.Fatalf("day key = %s", r.DayKey())
	}
}
