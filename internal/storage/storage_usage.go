package storage

// SaveUsage stores a snapshot of per-command invocation counts.
func (s *Storage) SaveUsage(counts map[string]uint64) error {
	s.ds.Add(usageKey, counts)
	return nil
}

// LoadUsage returns the persisted usage counts, or an empty map if none were
// saved yet.
func (s *Storage) LoadUsage() (map[string]uint64, error) {
	value, ok := s.ds.Get(usageKey)
	if !ok {
		return map[string]uint64{}, nil
	}
	counts := map[string]uint64{}
	if err := decode(value, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
