package model

import "github.com/tollan/detsched/internal/offsets"

// SensingControl is the optional periodic pseudo-frame occupying every
// wireless link for TimeNs every PeriodNs. Its offsets on instance i are
// fixed to i*PeriodNs; F1 stores them into the grid the moment the
// pseudo-frame's variables are first introduced, and they never change
// afterwards.
type SensingControl struct {
	Links        []int
	PeriodNs     int64
	TimeNs       int64
	NumInstances int64
	grids        map[int]*offsets.Grid // linkID -> instances x 1 grid
}

// GridFor returns the per-link offset grid for the sensing reservation,
// allocating it on first use.
func (s *SensingControl) GridFor(linkID int) *offsets.Grid {
	if s.grids == nil {
		s.grids = make(map[int]*offsets.Grid, len(s.Links))
	}
	g, ok := s.grids[linkID]
	if !ok {
		g = offsets.NewGrid(int(s.NumInstances), 1)
		s.grids[linkID] = g
	}
	return g
}

// FixedOffset returns the permanent offset i*PeriodNs for instance i,
// ensuring the backing grid carries the same value.
func (s *SensingControl) FixedOffset(linkID int, i int64) int64 {
	v := i * s.PeriodNs
	g := s.GridFor(linkID)
	if cur, ok := g.Get(int(i), 0); !ok || cur != v {
		g.Set(int(i), 0, v)
	}
	return v
}
