package memory

// StoredForTest returns the number of entries held, expired or not
func (s *SeenStore) StoredForTest() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
