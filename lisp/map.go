package lisp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Map is a value-keyed map.  Key equality follows Equal, so Int(3) and
// Float(3.0) address the same entry.  Entries remember insertion order so
// printed maps are stable, but order is not part of map equality.
type Map struct {
	idx     map[string]int
	entries []mapEntry
}

type mapEntry struct {
	hash string
	key  *LVal
	val  *LVal
}

// NewMap initializes and returns an empty Map.
func NewMap() *Map {
	return &Map{idx: make(map[string]int)}
}

// Len returns the number of entries in m.
func (m *Map) Len() int {
	return len(m.entries)
}

// Get returns the value bound to key and whether the key is present.
func (m *Map) Get(key *LVal) (*LVal, bool, *LVal) {
	h, lerr := hashKey(key)
	if lerr != nil {
		return nil, false, lerr
	}
	i, ok := m.idx[h]
	if !ok {
		return nil, false, nil
	}
	return m.entries[i].val, true, nil
}

// Set binds key to val in place.  Set is used while a map is being
// constructed; settled maps are updated with Assoc.
func (m *Map) Set(key, val *LVal) *LVal {
	h, lerr := hashKey(key)
	if lerr != nil {
		return lerr
	}
	if i, ok := m.idx[h]; ok {
		m.entries[i].val = val
		return nil
	}
	m.idx[h] = len(m.entries)
	m.entries = append(m.entries, mapEntry{hash: h, key: key, val: val})
	return nil
}

// Assoc returns a new map with key bound to val.  The receiver is
// unchanged.
func (m *Map) Assoc(key, val *LVal) (*Map, *LVal) {
	cp := m.Copy()
	if lerr := cp.Set(key, val); lerr != nil {
		return nil, lerr
	}
	return cp, nil
}

// Dissoc returns a new map without key.  The receiver is unchanged.
func (m *Map) Dissoc(key *LVal) (*Map, *LVal) {
	h, lerr := hashKey(key)
	if lerr != nil {
		return nil, lerr
	}
	if _, ok := m.idx[h]; !ok {
		return m, nil
	}
	cp := NewMap()
	for _, e := range m.entries {
		if e.hash == h {
			continue
		}
		cp.idx[e.hash] = len(cp.entries)
		cp.entries = append(cp.entries, e)
	}
	return cp, nil
}

// Copy returns a map sharing no structure with m.
func (m *Map) Copy() *Map {
	cp := &Map{
		idx:     make(map[string]int, len(m.idx)),
		entries: make([]mapEntry, len(m.entries)),
	}
	for h, i := range m.idx {
		cp.idx[h] = i
	}
	copy(cp.entries, m.entries)
	return cp
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map) Each(fn func(key, val *LVal) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}

func mapEqual(a, b *Map) (bool, *LVal) {
	if a.Len() != b.Len() {
		return false, nil
	}
	for _, e := range a.entries {
		i, ok := b.idx[e.hash]
		if !ok {
			return false, nil
		}
		eq, lerr := equalErr(e.val, b.entries[i].val)
		if lerr != nil || !eq {
			return eq, lerr
		}
	}
	return true, nil
}

// hashKey derives a canonical key string for v.  Integers and integral
// floats share a representation so cross-type numeric key equality holds.
// Lazy sequences are forced in full; a forcing failure propagates.
func hashKey(v *LVal) (string, *LVal) {
	switch v.Type {
	case LNil:
		return "n", nil
	case LBool:
		return "b:" + strconv.FormatBool(v.Bool), nil
	case LInt:
		return "i:" + strconv.FormatInt(v.Int, 10), nil
	case LFloat:
		if v.Float == float64(int64(v.Float)) {
			return "i:" + strconv.FormatInt(int64(v.Float), 10), nil
		}
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case LChar:
		return "c:" + string(v.Char), nil
	case LString:
		return "s:" + v.Str, nil
	case LSymbol:
		return fmt.Sprintf("y:%d/%d", v.NS, v.Name), nil
	case LKeyword:
		return fmt.Sprintf("k:%d/%d", v.NS, v.Name), nil
	case LSeq, LVector:
		var b strings.Builder
		b.WriteString("q:(")
		it := NewSeqIterator(v)
		for it.Next() {
			h, lerr := hashKey(it.Value())
			if lerr != nil {
				return "", lerr
			}
			b.WriteString(h)
			b.WriteString(" ")
		}
		if it.Err() != nil {
			return "", it.Err()
		}
		b.WriteString(")")
		return b.String(), nil
	case LMap:
		parts := make([]string, 0, v.Map.Len())
		for _, e := range v.Map.entries {
			hv, lerr := hashKey(e.val)
			if lerr != nil {
				return "", lerr
			}
			parts = append(parts, e.hash+"="+hv)
		}
		sort.Strings(parts)
		return "m:{" + strings.Join(parts, ",") + "}", nil
	case LVar:
		return fmt.Sprintf("p:%p", v.Var), nil
	case LFun:
		return fmt.Sprintf("p:%p", v.Fun), nil
	case LBuiltin:
		return fmt.Sprintf("p:%p", v.Builtin), nil
	case LSpecial:
		return "z:" + v.Special.String(), nil
	default:
		return "", Errorf(ErrInvalidArgument, "unhashable type: %s", v.Type)
	}
}
