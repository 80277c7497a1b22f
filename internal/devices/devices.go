// Package devices maps GPU device names to the family and revision ids the
// compiler tool expects, and filters host device lists.
package devices

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Identity is the (family, revision) pair the compiler tool uses to select a
// target device.
type Identity struct {
	Family   int
	Revision int
}

// Table is an immutable name-to-identity mapping. The zero value is an
// empty table.
type Table struct {
	entries map[string]Identity
}

// NewTable copies entries into a new table.
func NewTable(entries map[string]Identity) *Table {
	return &Table{entries: maps.Clone(entries)}
}

// Default returns the built-in device table. It is built once and shared.
var Default = sync.OnceValue(func() *Table {
	return NewTable(map[string]Identity{
		"Bonaire":       {120, 20},
		"Bristol Ridge": {130, 10},
		"Capeverde":     {110, 40},
		"Carrizo":       {130, 1},
		"Fiji":          {130, 60},
		"Hainan":        {110, 75},
		"Hawaii":        {120, 40},
		"Iceland":       {130, 19},
		"Kalindi":       {120, 129},
		"Mullins":       {120, 161},
		"Oland":         {110, 60},
		"Pitcairn":      {110, 20},
		"Spectre":       {120, 1},
		"Spooky":        {120, 65},
		"Stoney":        {130, 97},
		"Tahiti":        {110, 0},
		"Tonga":         {130, 20},
		"Baffin":        {130, 91},
		"Ellesmere":     {130, 89},
		"gfx804":        {130, 100},
		"gfx900":        {141, 1},
		"gfx902":        {141, 27},
		"gfx906":        {141, 40},
		"gfx909":        {141, 20},
		"gfx90c":        {141, 20},
		"gfx1010":       {143, 1},
		"gfx1011":       {143, 10},
		"gfx1012":       {143, 20},
		"gfx1030":       {143, 40},
		"gfx1031":       {143, 50},
		"gfx1032":       {143, 60},
		"gfx1034":       {143, 70},
	})
})

// Lookup returns the identity for a device name. Names are case-sensitive.
func (t *Table) Lookup(name string) (Identity, bool) {
	if t == nil {
		return Identity{}, false
	}
	id, ok := t.entries[name]
	return id, ok
}

// With returns a new table holding t's entries plus extra. Entries in extra
// win on conflict. t is left untouched.
func (t *Table) With(extra map[string]Identity) *Table {
	merged := make(map[string]Identity, t.Len()+len(extra))
	if t != nil {
		maps.Copy(merged, t.entries)
	}
	maps.Copy(merged, extra)
	return &Table{entries: merged}
}

// Names returns the device names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.entries))
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Enumerator lists the devices the host environment knows about.
type Enumerator interface {
	Devices(ctx context.Context) ([]string, error)
}

// TableEnumerator enumerates the names known to a table.
type TableEnumerator struct {
	Table *Table
}

// Devices implements Enumerator.
func (e TableEnumerator) Devices(context.Context) ([]string, error) {
	if e.Table == nil {
		return nil, fmt.Errorf("no device table configured")
	}
	return e.Table.Names(), nil
}

// Disabled is the set of devices the compiler tool cannot target. It is
// currently empty.
var Disabled = map[string]struct{}{}

// Supported asks the enumerator for the host devices and removes every
// disabled one. The result is sorted and free of duplicates.
func Supported(ctx context.Context, e Enumerator, disabled map[string]struct{}) ([]string, error) {
	all, err := e.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	out := make([]string, 0, len(all))
	for _, name := range all {
		if _, off := disabled[name]; off {
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
