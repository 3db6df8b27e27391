package cache

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/truevail/internal/model"
)

// Verdicts stores analysis results keyed by kind and input digest
type Verdicts struct {
	store Cache
	ttl   time.Duration
}

// NewVerdicts wraps store; ttl 0 uses the store default
func NewVerdicts(store Cache, ttl time.Duration) *Verdicts {
	return &Verdicts{store: store, ttl: ttl}
}

// VerdictKey identifies an analysis input. Image bytes take part in the
// digest so two uploads with one file name never collide.
func VerdictKey(in model.Input) string {
	return CacheKey("verdict", string(in.Kind), in.Content, string(in.Image))
}

// Get returns a cached result. Undecodable entries count as misses.
func (v *Verdicts) Get(key string) (*model.Result, bool) {
	data, ok := v.store.Get(key)
	if !ok {
		return nil, false
	}

	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		_ = v.store.Delete(key)
		return nil, false
	}
	return &result, true
}

// Put stores result under key
func (v *Verdicts) Put(key string, result model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return v.store.Set(key, data, v.ttl)
}
