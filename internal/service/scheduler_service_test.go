package service

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:05")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if spec != "0 5 9 * * *" {
		t.Fatalf("spec=%q", spec)
	}
	if _, err := buildDailySpec("9"); err == nil {
		t.Fatalf("expected error for malformed time")
	}
}

func TestScheduleInterval(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if _, err := s.ScheduleInterval(0, func() {}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := s.ScheduleInterval(time.Hour, func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := s.ScheduleDaily("10:00", func() {}); err != nil {
		t.Fatalf("schedule daily: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("entries=%d want 2", s.Len())
	}
	s.Start()
	s.Stop()
}
