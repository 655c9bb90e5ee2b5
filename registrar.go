// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "sort"

// RootSourceID is the distinguished id reserved for the stream's root
// source; ordinary registration never allocates it.
const RootSourceID uint16 = 0

// maxSourceID is the highest allocatable id; 0xFFFF is the wire-reserved
// end-of-stream marker.
const maxSourceID = 0xFFFE

// Source is a named producer of record types.
type Source struct {
	Name    string
	Version uint16
}

// SourceRegistrar maps short numeric source ids to (name, version) pairs.
//
// Names are case-sensitive. Register rejects a name already present (exact
// string equality); RegisterRoot and RegisterExisting check only the id slot
// and do not reject a name that is registered under another id. Ids 1
// through 65534 are allocated in ascending order, promptly reusing the
// lowest id freed by a removal — ids travel on the wire and consumers index
// by them, so gaps should not linger. Id 0 is reserved for the root source.
//
// A SourceRegistrar is not safe for concurrent use.
type SourceRegistrar struct {
	sources map[uint16]Source
	nextID  uint16
}

// NewSourceRegistrar returns an empty registrar.
func NewSourceRegistrar() *SourceRegistrar {
	return &SourceRegistrar{
		sources: make(map[uint16]Source),
		nextID:  1,
	}
}

// Register inserts name at the lowest free id ≥ 1 and returns it. If name
// is already registered, a SourceExistsError carries the existing id. Id
// exhaustion reports ErrRegistryFull.
func (sr *SourceRegistrar) Register(name string, version uint16) (uint16, error) {
	if id, ok := sr.GetBySource(name); ok {
		return 0, &SourceExistsError{Name: name, ID: id}
	}
	if sr.nextID == 0 || sr.nextID > maxSourceID {
		return 0, ErrRegistryFull
	}

	id := sr.nextID
	sr.sources[id] = Source{Name: name, Version: version}
	// The scan runs after the insert so the freshly taken id counts as
	// occupied when choosing the next candidate.
	sr.nextID = sr.nextFreeID(id + 1)
	return id, nil
}

// RegisterRoot inserts name at id 0. If the root slot is occupied, the
// existing entry's name is returned and nothing is written.
func (sr *SourceRegistrar) RegisterRoot(name string, version uint16) (existing string, ok bool) {
	if src, occupied := sr.sources[RootSourceID]; occupied {
		return src.Name, false
	}
	sr.sources[RootSourceID] = Source{Name: name, Version: version}
	return "", true
}

// RegisterExisting inserts name at a specific nonzero id, as when replaying
// a stream that already assigned ids. If the id is occupied, the existing
// entry's name is returned and nothing is written.
func (sr *SourceRegistrar) RegisterExisting(id uint16, name string, version uint16) (existing string, ok bool) {
	if id == RootSourceID || id == SourceEOS {
		return "", false
	}
	if src, occupied := sr.sources[id]; occupied {
		return src.Name, false
	}
	sr.sources[id] = Source{Name: name, Version: version}
	if sr.nextID == id {
		sr.nextID = sr.nextFreeID(id + 1)
	}
	return "", true
}

// RemoveByID deletes the entry at id, returning it. The freed id becomes
// the next allocation candidate when it is lower than the current one.
func (sr *SourceRegistrar) RemoveByID(id uint16) (Source, bool) {
	src, ok := sr.sources[id]
	if !ok {
		return Source{}, false
	}
	delete(sr.sources, id)
	if id != RootSourceID && (sr.nextID == 0 || id < sr.nextID) {
		sr.nextID = id
	}
	return src, true
}

// RemoveBySource deletes the entry named name, returning its id.
func (sr *SourceRegistrar) RemoveBySource(name string) (uint16, bool) {
	id, ok := sr.GetBySource(name)
	if !ok {
		return 0, false
	}
	sr.RemoveByID(id)
	return id, true
}

// GetByID looks up the source registered at id.
func (sr *SourceRegistrar) GetByID(id uint16) (Source, bool) {
	src, ok := sr.sources[id]
	return src, ok
}

// GetBySource looks up the id name is registered under.
func (sr *SourceRegistrar) GetBySource(name string) (uint16, bool) {
	for id, src := range sr.sources {
		if src.Name == name {
			return id, true
		}
	}
	return 0, false
}

// Len returns the number of registered sources, the root included.
func (sr *SourceRegistrar) Len() int { return len(sr.sources) }

// RegisteredSource pairs an id with its Source for enumeration.
type RegisteredSource struct {
	ID uint16
	Source
}

// Sources returns every registered source ordered ascending by id.
func (sr *SourceRegistrar) Sources() []RegisteredSource {
	out := make([]RegisteredSource, 0, len(sr.sources))
	for id, src := range sr.sources {
		out = append(out, RegisteredSource{ID: id, Source: src})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// nextFreeID returns the smallest unoccupied id ≥ from, or 0 when the id
// space above from is exhausted.
func (sr *SourceRegistrar) nextFreeID(from uint16) uint16 {
	for id := from; id != 0 && id <= maxSourceID; id++ {
		if _, occupied := sr.sources[id]; !occupied {
			return id
		}
	}
	return 0
}
