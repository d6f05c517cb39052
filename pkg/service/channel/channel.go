package channel

import (
	"bytes"
	"encoding/json"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// Registry maps channels to their webhook adapters
type Registry struct {
	adapters map[types.Channel]interfaces.ChannelAdapter
}

// NewRegistry builds a registry. A later adapter for the same channel replaces an earlier one.
func NewRegistry(adapters ...interfaces.ChannelAdapter) *Registry {
	r := &Registry{adapters: make(map[types.Channel]interfaces.ChannelAdapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Channel()] = a
	}
	return r
}

// DefaultRegistry holds the adapters of every external webhook channel
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewInstagram(),
		NewFacebook(),
		NewWhatsApp(),
		NewEmail(),
		NewPhone(),
	)
}

// Get returns the adapter for ch, or nil when the channel has no webhook adapter
func (r *Registry) Get(ch types.Channel) interfaces.ChannelAdapter {
	return r.adapters[ch]
}

// decode unmarshals raw into v and reports success. Non-object payloads fail.
func decode(raw []byte, v any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Unmarshal(trimmed, v) == nil
}
