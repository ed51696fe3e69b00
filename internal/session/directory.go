package session

import (
	"strconv"
	"sync"
)

// Credential is a directory record. Password is compared verbatim.
type Credential struct {
	Identity
	Password string `json:"-"`
}

// Directory is the in-memory user registry standing in for an auth backend.
type Directory struct {
	mu      sync.RWMutex
	records []Credential
}

func NewDirectory(records ...Credential) *Directory {
	return &Directory{records: append([]Credential(nil), records...)}
}

// DefaultDirectory holds the two demo accounts.
func DefaultDirectory() *Directory {
	return NewDirectory(
		Credential{
			Identity: Identity{ID: "1", Name: "John Doe", Email: "user@example.com", Role: RoleUser},
			Password: "password",
		},
		Credential{
			Identity: Identity{ID: "2", Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin},
			Password: "admin123",
		},
	)
}

// Match returns the identity whose email and password both match exactly.
func (d *Directory) Match(email, password string) (Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.records {
		if r.Email == email && r.Password == password {
			return r.Identity, true
		}
	}
	return Identity{}, false
}

// Exists reports whether email is registered (case-sensitive).
func (d *Directory) Exists(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.exists(email)
}

func (d *Directory) exists(email string) bool {
	for _, r := range d.records {
		if r.Email == email {
			return true
		}
	}
	return false
}

// Register adds an ordinary user. Ids are sequential decimal strings.
func (d *Directory) Register(name, email, password string) (Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.exists(email) {
		return Identity{}, ErrEmailAlreadyRegistered
	}
	id := Identity{
		ID:    strconv.Itoa(len(d.records) + 1),
		Name:  name,
		Email: email,
		Role:  RoleUser,
	}
	d.records = append(d.records, Credential{Identity: id, Password: password})
	return id, nil
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}
