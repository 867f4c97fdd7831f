package ecs

// entityStore tracks entity generations and recycles freed ids.
type entityStore struct {
	next entityID
	gens []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.next++
		id = s.next
		s.gens = append(s.gens, 0)
	}
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.gens[e.id()-1]++
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.gens) {
		return false
	}
	return s.gens[e.id()-1] == e.generation()
}

// all returns handles for every live entity.
func (s *entityStore) all() []Entity {
	if s == nil {
		return nil
	}
	freed := make(map[entityID]struct{}, len(s.free))
	for _, id := range s.free {
		freed[id] = struct{}{}
	}
	out := make([]Entity, 0, len(s.gens))
	for i := range s.gens {
		id := entityID(i + 1)
		if _, gone := freed[id]; gone {
			continue
		}
		out = append(out, makeEntity(id, s.gens[i]))
	}
	return out
}
