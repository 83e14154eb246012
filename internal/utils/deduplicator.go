package utils

import (
	"sync"
	"time"
)

var (
	processedEvents = make(map[string]time.Time)
	mu              sync.RWMutex
)

// IsDuplicate checks if an event ID has been processed recently (within 5
// minutes). Returns true if the event is a redelivery and should be ignored.
func IsDuplicate(eventID string) bool {
	if eventID == "" {
		return false
	}

	mu.RLock()
	timestamp, exists := processedEvents[eventID]
	mu.RUnlock()

	if exists && time.Since(timestamp) < 5*time.Minute {
		return true
	}

	mu.Lock()
	processedEvents[eventID] = time.Now()

	// Cleanup old entries if map gets too big
	if len(processedEvents) > 10000 {
		for k, v := range processedEvents {
			if time.Since(v) > 10*time.Minute {
				delete(processedEvents, k)
			}
		}
	}
	mu.Unlock()

	return false
}
