package ui

import "sync/atomic"

// Stats counts catalog traffic for the health endpoint.
type Stats struct {
	Requests  atomic.Int64
	Fallbacks atomic.Int64
	Failures  atomic.Int64
}

type StatsSnapshot struct {
	Requests  int64 `json:"requests"`
	Fallbacks int64 `json:"fallbacks"`
	Failures  int64 `json:"failures"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Requests:  s.Requests.Load(),
		Fallbacks: s.Fallbacks.Load(),
		Failures:  s.Failures.Load(),
	}
}
