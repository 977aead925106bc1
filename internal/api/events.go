package api

import "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/bus"

// EventBus receives follow/like events from the handlers. Defaults to the
// in-process bus; cmd/server swaps in NATS when configured.
var EventBus bus.Bus = bus.NewLocalBus()
