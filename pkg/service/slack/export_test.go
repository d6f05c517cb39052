package slack

// CacheSize is exported for testing
func (d *Directory) CacheSize() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}
