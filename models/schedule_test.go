package models

import (
	"errors"
	"testing"
	"time"
)

func TestScheduledAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, loc)

	tests := []struct {
		name    string
		date    string
		time    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "day month with colon",
			date: "14/09", time: "21:30",
			want: time.Date(2026, time.September, 14, 21, 30, 0, 0, loc),
		},
		{
			name: "day month with h separator",
			date: "14/09", time: "22h30",
			want: time.Date(2026, time.September, 14, 22, 30, 0, 0, loc),
		},
		{
			name: "full date",
			date: "01/01/2027", time: "18:00",
			want: time.Date(2027, time.January, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "two digit year",
			date: "01/01/27", time: "18:00",
			want: time.Date(2027, time.January, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "uppercase H",
			date: "5/3", time: "9H05",
			want: time.Date(2026, time.March, 5, 9, 5, 0, 0, loc),
		},
		{name: "garbage date", date: "soon", time: "21:30", wantErr: true},
		{name: "garbage time", date: "14/09", time: "evening", wantErr: true},
		{name: "hour out of range", date: "14/09", time: "25:00", wantErr: true},
		{name: "minute out of range", date: "14/09", time: "21:75", wantErr: true},
		{name: "month out of range", date: "14/13", time: "21:30", wantErr: true},
		{name: "empty", date: "", time: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Match{Date: tc.date, Time: tc.time}
			got, err := m.ScheduledAt(now, loc)
			if tc.wantErr {
				if !errors.Is(err, ErrUnparsableSchedule) {
					t.Fatalf("expected ErrUnparsableSchedule, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAddThumbIdempotent(t *testing.T) {
	m := &Match{}
	if !m.AddThumb("u1") {
		t.Fatal("first AddThumb should report true")
	}
	if m.AddThumb("u1") {
		t.Fatal("second AddThumb for same user should report false")
	}
	if len(m.Thumbs) != 1 {
		t.Fatalf("thumbs = %v, want exactly one entry", m.Thumbs)
	}
}
