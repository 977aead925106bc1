package bus

import (
	"log"
	"os"
)

// FromEnv selects the bus backend. NATS_URL switches to NATS (requires the
// 'nats' build tag); otherwise events stay in-process on a LocalBus.
func FromEnv() Bus {
	if url := os.Getenv("NATS_URL"); url != "" {
		b, err := NewNatsBus(url)
		if err == nil {
			log.Println("Event bus: NATS at", url)
			return b
		}
		log.Printf("Warning: NATS bus unavailable (%v), falling back to local bus", err)
	}
	return NewLocalBus()
}
