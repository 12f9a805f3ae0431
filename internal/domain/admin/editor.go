package admin

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/example/campus-canteen/internal/domain/catalog"
	"github.com/google/uuid"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("menu entry not found")
	ErrUnauthorized = errors.New("admin access required")
)

// DefaultImage is used when a created entry has no image URL
const DefaultImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800&q=80"

// Identity is the caller as resolved by the session provider. Pending means
// session resolution is still in flight; such callers are denied (fail
// closed), as are callers whose email is not the designated admin's.
type Identity struct {
	Email   string
	Pending bool
}

// Fields carries the form inputs for create and update. Price and rating
// arrive as strings, exactly as the admin form submits them.
type Fields struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Rating      string `json:"rating"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsVeg       bool   `json:"is_veg"`
}

// Editor owns the admin working set: a private copy of the menu, keyed by
// entry id with insertion order preserved. Mutations never write back to the
// shared catalog source.
type Editor struct {
	mu         sync.Mutex
	adminEmail string
	entries    map[string]catalog.Entry
	order      []string
}

// NewEditor seeds the working set with a copy of the given entries.
// adminEmail is the single identity allowed to use the editor.
func NewEditor(adminEmail string, seed []catalog.Entry) *Editor {
	ed := &Editor{
		adminEmail: adminEmail,
		entries:    make(map[string]catalog.Entry, len(seed)),
		order:      make([]string, 0, len(seed)),
	}
	for _, e := range seed {
		if _, dup := ed.entries[e.ID]; dup {
			continue
		}
		ed.entries[e.ID] = e
		ed.order = append(ed.order, e.ID)
	}
	return ed
}

// Entries returns the working set in insertion order. The editing surface is
// admin-only, so even reads require the designated identity.
func (ed *Editor) Entries(ident Identity) ([]catalog.Entry, error) {
	if err := ed.authorize(ident); err != nil {
		return nil, err
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()
	out := make([]catalog.Entry, 0, len(ed.order))
	for _, id := range ed.order {
		out = append(out, ed.entries[id])
	}
	return out, nil
}

// Create validates the fields and appends a new entry with a fresh unique id
func (ed *Editor) Create(ident Identity, fields Fields) (catalog.Entry, error) {
	if err := ed.authorize(ident); err != nil {
		return catalog.Entry{}, err
	}

	entry, err := parseFields(fields)
	if err != nil {
		return catalog.Entry{}, err
	}
	entry.ID = uuid.New().String()
	if entry.Image == "" {
		entry.Image = DefaultImage
	}

	ed.mu.Lock()
	ed.entries[entry.ID] = entry
	ed.order = append(ed.order, entry.ID)
	ed.mu.Unlock()

	return entry, nil
}

// Update validates the fields and replaces the entry's mutable fields in
// place, preserving its id. A blank image keeps the existing one.
func (ed *Editor) Update(ident Identity, id string, fields Fields) (catalog.Entry, error) {
	if err := ed.authorize(ident); err != nil {
		return catalog.Entry{}, err
	}

	entry, err := parseFields(fields)
	if err != nil {
		return catalog.Entry{}, err
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	current, ok := ed.entries[id]
	if !ok {
		return catalog.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry.ID = current.ID
	if entry.Image == "" {
		entry.Image = current.Image
	}
	ed.entries[id] = entry
	return entry, nil
}

// Delete removes the entry if present; deleting a missing id is a no-op
func (ed *Editor) Delete(ident Identity, id string) error {
	if err := ed.authorize(ident); err != nil {
		return err
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	if _, ok := ed.entries[id]; !ok {
		return nil
	}
	delete(ed.entries, id)
	for i, eid := range ed.order {
		if eid == id {
			ed.order = append(ed.order[:i], ed.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the size of the working set without an identity check, for
// observability only
func (ed *Editor) Len() int {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.entries)
}

func (ed *Editor) authorize(ident Identity) error {
	if ident.Pending {
		return ErrUnauthorized
	}
	if ident.Email == "" || ident.Email != ed.adminEmail {
		return ErrUnauthorized
	}
	return nil
}

func parseFields(f Fields) (catalog.Entry, error) {
	if f.Name == "" {
		return catalog.Entry{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	price, err := strconv.Atoi(f.Price)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: price %q is not a number", ErrValidation, f.Price)
	}
	if price < 0 {
		return catalog.Entry{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	rating, err := strconv.ParseFloat(f.Rating, 64)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: rating %q is not a number", ErrValidation, f.Rating)
	}
	if rating < 1 || rating > 5 {
		return catalog.Entry{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	category := catalog.Category(f.Category)
	if f.Category == "" {
		category = catalog.CategoryBreakfast
	}
	if !catalog.ValidCategory(category) {
		return catalog.Entry{}, fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	}

	return catalog.Entry{
		Name:        f.Name,
		Price:       price,
		Image:       f.Image,
		Rating:      rating,
		Category:    category,
		Description: f.Description,
		IsVeg:       f.IsVeg,
	}, nil
}
