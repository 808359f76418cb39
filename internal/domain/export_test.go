package domain

// SetCodeGenerator replaces the join code source of s.
func SetCodeGenerator(s *EventService, gen func() (string, error)) {
	s.newCode = gen
}
