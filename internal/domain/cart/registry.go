package cart

import "sync"

// GetCartID derives the persistence key for a user's cart
func GetCartID(userID string) string {
	return "cart-" + userID
}

// Registry hands out one engine per user session, creating it lazily on
// first use. The onCreate hook runs once per engine before it is shared,
// letting the caller restore saved lines and attach subscribers.
type Registry struct {
	mu       sync.Mutex
	engines  map[string]*Engine
	onCreate func(userID string, e *Engine)
}

func NewRegistry(onCreate func(userID string, e *Engine)) *Registry {
	return &Registry{
		engines:  make(map[string]*Engine),
		onCreate: onCreate,
	}
}

// ForUser returns the user's engine, creating and initializing it if needed
func (r *Registry) ForUser(userID string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[userID]; ok {
		return e
	}
	e := NewEngine()
	if r.onCreate != nil {
		r.onCreate(userID, e)
	}
	r.engines[userID] = e
	return e
}
