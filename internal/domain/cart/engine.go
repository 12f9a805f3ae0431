package cart

import (
	"sync"

	"github.com/example/campus-canteen/internal/domain/catalog"
)

// Line is one menu item inside the cart. ID is the catalog entry id and the
// merge key; Price is a snapshot taken when the item was first added.
// Quantity is always >= 1 while the line exists.
type Line struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    int              `json:"price"`
	Image    string           `json:"image"`
	Category catalog.Category `json:"category"`
	Quantity int              `json:"quantity"`
}

// ItemRef carries the fields copied into a new line on first add
type ItemRef struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    int              `json:"price"`
	Image    string           `json:"image"`
	Category catalog.Category `json:"category"`
}

// Snapshot is a consistent view of the cart: the lines in insertion order
// plus the aggregates computed from exactly those lines.
type Snapshot struct {
	Lines      []Line `json:"lines"`
	TotalItems int    `json:"total_items"`
	TotalPrice int    `json:"total_price"`
}

// Subscriber observes the cart. It is called synchronously after every
// mutation, before the mutating call returns.
type Subscriber func(Snapshot)

// Engine owns one session's cart. Every mutation recomputes the cached
// aggregates and notifies all subscribers with a snapshot whose aggregates
// always agree with its lines.
type Engine struct {
	mu         sync.Mutex
	lines      map[string]*Line
	order      []string // insertion order of line ids, for display
	totalItems int
	totalPrice int
	subs       []Subscriber
}

func NewEngine() *Engine {
	return &Engine{lines: make(map[string]*Line)}
}

// Subscribe registers fn to be notified on every mutation
func (e *Engine) Subscribe(fn Subscriber) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

// Add merges the item into the cart: an existing line's quantity grows by
// one, otherwise a new line with quantity 1 is inserted.
func (e *Engine) Add(item ItemRef) {
	e.mu.Lock()
	if line, ok := e.lines[item.ID]; ok {
		line.Quantity++
	} else {
		e.lines[item.ID] = &Line{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Image:    item.Image,
			Category: item.Category,
			Quantity: 1,
		}
		e.order = append(e.order, item.ID)
	}
	e.recompute()
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	notify(subs, snap)
}

// SetQuantity sets the line's quantity to exactly n. n <= 0 removes the line;
// a missing id is a no-op. There is no quantity-zero-but-present state.
func (e *Engine) SetQuantity(id string, n int) {
	e.mu.Lock()
	line, ok := e.lines[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	if n <= 0 {
		e.removeLocked(id)
	} else {
		line.Quantity = n
	}
	e.recompute()
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	notify(subs, snap)
}

// Remove deletes the line if present; removing a missing id is a no-op
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	if _, ok := e.lines[id]; !ok {
		e.mu.Unlock()
		return
	}
	e.removeLocked(id)
	e.recompute()
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	notify(subs, snap)
}

// Clear empties the cart. Idempotent; used after checkout and by the
// explicit clear-cart action.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = make(map[string]*Line)
	e.order = nil
	e.recompute()
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	notify(subs, snap)
}

// Restore replays previously saved lines into the cart, replacing its
// contents. Subscribers are notified once, after the whole replay.
func (e *Engine) Restore(lines []Line) {
	e.mu.Lock()
	e.lines = make(map[string]*Line, len(lines))
	e.order = nil
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if existing, ok := e.lines[l.ID]; ok {
			existing.Quantity += l.Quantity
			continue
		}
		line := l
		e.lines[l.ID] = &line
		e.order = append(e.order, l.ID)
	}
	e.recompute()
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	notify(subs, snap)
}

// TotalItems returns the cached sum of all line quantities
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalItems
}

// TotalPrice returns the cached sum of price x quantity over all lines
func (e *Engine) TotalPrice() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPrice
}

// Lines returns the cart lines in insertion order
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.linesLocked()
}

// Snapshot returns a consistent view of lines and aggregates
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, _ := e.snapshotLocked()
	return snap
}

func (e *Engine) removeLocked(id string) {
	delete(e.lines, id)
	for i, lid := range e.order {
		if lid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// recompute refreshes the cached aggregates from the lines. Called under the
// lock on every mutation, never on read.
func (e *Engine) recompute() {
	items, price := 0, 0
	for _, id := range e.order {
		line := e.lines[id]
		items += line.Quantity
		price += line.Price * line.Quantity
	}
	e.totalItems = items
	e.totalPrice = price
}

func (e *Engine) linesLocked() []Line {
	out := make([]Line, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.lines[id])
	}
	return out
}

func (e *Engine) snapshotLocked() (Snapshot, []Subscriber) {
	return Snapshot{
		Lines:      e.linesLocked(),
		TotalItems: e.totalItems,
		TotalPrice: e.totalPrice,
	}, e.subs
}

func notify(subs []Subscriber, snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
