package stats

import (
	"github.com/rcrowley/go-metrics"
)

type StatType uint8

const (
	TypeConfirmationHeight StatType = iota + 1
)

func (t StatType) String() string {
	switch t {
	case TypeConfirmationHeight:
		return "confirmation_height"
	}
	return "unknown"
}

type StatDetail uint8

const (
	DetailBlocksConfirmed StatDetail = iota + 1
	DetailInvalidBlock
)

func (d StatDetail) String() string {
	switch d {
	case DetailBlocksConfirmed:
		return "blocks_confirmed"
	case DetailInvalidBlock:
		return "invalid_block"
	}
	return "unknown"
}

type StatDir uint8

const (
	DirIn StatDir = iota + 1
	DirOut
)

func (d StatDir) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// Stat counts node events in a private go-metrics registry so sinks
// (influx exporters, test assertions) can read them back by name.
type Stat struct {
	registry metrics.Registry
}

func New() *Stat {
	return &Stat{registry: metrics.NewRegistry()}
}

func (s *Stat) Inc(t StatType, d StatDetail) {
	metrics.GetOrRegisterCounter(t.String()+"/"+d.String(), s.registry).Inc(1)
}

func (s *Stat) Add(t StatType, d StatDetail, dir StatDir, count int64) {
	metrics.GetOrRegisterCounter(t.String()+"/"+d.String()+"/"+dir.String(), s.registry).Inc(count)
}

func (s *Stat) Count(t StatType, d StatDetail) int64 {
	return metrics.GetOrRegisterCounter(t.String()+"/"+d.String(), s.registry).Count()
}

func (s *Stat) CountDir(t StatType, d StatDetail, dir StatDir) int64 {
	return metrics.GetOrRegisterCounter(t.String()+"/"+d.String()+"/"+dir.String(), s.registry).Count()
}

// Registry exposes the underlying registry for metric exporters.
func (s *Stat) Registry() metrics.Registry {
	return s.registry
}
