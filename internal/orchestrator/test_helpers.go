package orchestrator

// SetForTest sets the global resolver for testing.
func SetForTest(r EndpointResolver) {
	mu.Lock()
	defer mu.Unlock()
	current = r
}

// ResetForTest clears the global resolver.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}
