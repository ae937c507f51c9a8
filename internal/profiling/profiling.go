package profiling

import (
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Per-frame wall-clock totals, keyed by "package.Operation".
var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameCounts = make(map[string]int)
)

// Track starts timing name and returns the func that stops it:
//
//	defer profiling.Track("world.Update")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		frameCounts[name]++
		mu.Unlock()
	}
}

// ResetFrame starts a new frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	clear(frameCounts)
	mu.Unlock()
}

// Snapshot copies the totals of the current frame.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return maps.Clone(frameTotals)
}

// Entry is one tracked name with its accumulated time and call count.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

// Top returns the n most expensive entries, largest first.
func Top(n int) []Entry {
	mu.Lock()
	list := make([]Entry, 0, len(frameTotals))
	for k, v := range frameTotals {
		list = append(list, Entry{Name: k, Total: v, Calls: frameCounts[k]})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Total != list[j].Total {
			return list[i].Total > list[j].Total
		}
		return list[i].Name < list[j].Name
	})
	if n < len(list) {
		list = list[:n]
	}
	return list
}

// Fields renders Top(n) as zap fields keyed by the tracked name.
func Fields(n int) []zap.Field {
	top := Top(n)
	fields := make([]zap.Field, 0, len(top))
	for _, e := range top {
		fields = append(fields, zap.Duration(e.Name, e.Total))
	}
	return fields
}

// SumWithPrefix totals every entry whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}
