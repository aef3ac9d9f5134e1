package formats

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/mind-engage/qbank/internal/bank"
)

// Source is the read side of a bank that exporters need.
type Source interface {
	Get(ctx context.Context, id int64) (bank.Question, error)
}

// Exporter writes the questions named by ids, in that order, to w. Ids
// that no longer exist are skipped.
type Exporter interface {
	ContentType() string
	Ext() string // file extension including the dot
	Export(ctx context.Context, src Source, ids []int64, w io.Writer) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Exporter{}
)

// Register an exporter under a format key (e.g. "moodle", "docx"). Call from
// init() in the format package.
func Register(name string, e Exporter) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = e
}

// Lookup returns the exporter registered for a format key.
func Lookup(name string) (Exporter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
