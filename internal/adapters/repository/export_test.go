package repository

import "time"

// PlantScores stores a result row whose scores blob is taken verbatim.
func PlantScores(s *MemoryStore, id, userID string, scores []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = record{
		id:              id,
		userID:          userID,
		takenAt:         time.Now().UTC(),
		answers:         []byte("[]"),
		scores:          scores,
		recommendations: []byte("{}"),
	}
	s.order = append(s.order, id)
}
