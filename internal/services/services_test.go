package services

import (
	"time"
)

// fixedNow is a Thursday; its week starts Monday 2026-03-09.
var fixedNow = time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return fixedNow }
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
