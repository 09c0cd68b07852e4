package offline

import (
	"encoding/json"
	"errors"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/storage"
)

const historyKey = "search/recent"

// History persists the recent search list.
type History struct {
	kv storage.KV
}

func NewHistory(kv storage.KV) *History {
	return &History{kv: kv}
}

// Load returns the stored queries, most recent first. Any failure yields an
// empty list.
func (h *History) Load() []string {
	raw, err := h.kv.Get(historyKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			debuglog.Warnf("loading search history: %v", err)
		}
		return []string{}
	}

	var queries []string
	if err := json.Unmarshal(raw, &queries); err != nil {
		debuglog.Warnf("search history corrupt, ignoring: %v", err)
		return []string{}
	}
	return queries
}

func (h *History) Save(queries []string) error {
	if queries == nil {
		queries = []string{}
	}
	raw, err := json.Marshal(queries)
	if err != nil {
		return &storage.StorageError{Op: "encode", Key: historyKey, Err: err}
	}
	return h.kv.Set(historyKey, raw)
}

func (h *History) Clear() error {
	return h.kv.Remove(historyKey)
}
