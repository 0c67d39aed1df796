package actions

import (
	"time"

	"github.com/rs/zerolog"

	"finchat/internal/store"
)

// Handlers holds the dependencies shared by every action handler.
type Handlers struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewHandlers creates the handler set backed by the given store.
func NewHandlers(st store.Store, log zerolog.Logger) *Handlers {
	return &Handlers{
		store: st,
		log:   log,
		now:   time.Now,
	}
}
