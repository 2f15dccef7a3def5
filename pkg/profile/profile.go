// Package profile holds an ordered set of setting values that is replayed
// onto a controller, and reads and writes it as YAML.
package profile

import (
	"context"
	"fmt"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/setting"
	"github.com/tic-motion/tic-go/pkg/transport"
)

// Entry is one setting value.
type Entry struct {
	Setting setting.Setting
	Value   int64
}

// Profile maps settings to values in insertion order. Replay writes
// entries in that order. The zero value is an empty profile.
type Profile struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty profile.
func New() *Profile {
	return &Profile{}
}

// Set stores v for s. Replacing an existing setting keeps its position.
func (p *Profile) Set(s setting.Setting, v int64) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := s.CheckValue(v); err != nil {
		return fmt.Errorf("%w: %w", command.ErrProtocolViolation, err)
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[s.Name]; ok {
		p.entries[i].Value = v
		return nil
	}
	p.index[s.Name] = len(p.entries)
	p.entries = append(p.entries, Entry{Setting: s, Value: v})
	return nil
}

// Get returns the value stored for s.
func (p *Profile) Get(s setting.Setting) (int64, bool) {
	if p == nil {
		return 0, false
	}
	i, ok := p.index[s.Name]
	if !ok {
		return 0, false
	}
	return p.entries[i].Value, true
}

// Delete removes s from the profile.
func (p *Profile) Delete(s setting.Setting) {
	if p == nil {
		return
	}
	i, ok := p.index[s.Name]
	if !ok {
		return
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	delete(p.index, s.Name)
	for j := i; j < len(p.entries); j++ {
		p.index[p.entries[j].Setting.Name] = j
	}
}

// Len returns the number of entries.
func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the entries in replay order.
func (p *Profile) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clone returns an independent copy.
func (p *Profile) Clone() *Profile {
	c := New()
	if p == nil {
		return c
	}
	for _, e := range p.entries {
		// Entries were validated on the way in.
		_ = c.Set(e.Setting, e.Value)
	}
	return c
}

// Apply writes every entry to the device in order. Each setting is write
// minimized, so replaying an unchanged profile issues no writes. Apply
// stops at the first failure.
func Apply(ctx context.Context, s transport.Sender, p *Profile) error {
	for _, e := range p.Entries() {
		if err := setting.Set(ctx, s, e.Setting, e.Value); err != nil {
			return fmt.Errorf("apply %s: %w", e.Setting.Name, err)
		}
	}
	return nil
}

// Capture reads the current value of each setting into a new profile.
// With no settings it reads the whole table.
func Capture(ctx context.Context, s transport.Sender, settings ...setting.Setting) (*Profile, error) {
	if len(settings) == 0 {
		settings = setting.All()
	}
	p := New()
	for _, st := range settings {
		v, err := setting.Get(ctx, s, st)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", st.Name, err)
		}
		if err := p.Set(st, v); err != nil {
			return nil, err
		}
	}
	return p, nil
}
