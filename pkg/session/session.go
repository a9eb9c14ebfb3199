// Package session tracks the signed-in identity. Credentials live in a
// local identity file under the data dir; the active session is persisted
// so it survives restarts. Callers pass the owner id from here explicitly
// into every store call, there is no ambient current-user global.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tableflip.dev/planner/pkg/store"
)

var (
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	ErrAlreadyRegistered  = errors.New("session: email already registered")
	ErrWeakPassword       = errors.New("session: password must be at least 6 characters")
	ErrBadEmail           = errors.New("session: invalid email address")
)

// Identity is the authenticated owner of records.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Listener observes identity changes. Called with nil on sign-out.
type Listener func(*Identity)

// Gate gates access to the signed-in identity and notifies listeners on
// startup restore, sign-in, and sign-out.
type Gate struct {
	basePath string

	mu        sync.Mutex
	current   *Identity
	listeners []Listener
}

const (
	usersFile   = ".users.json"
	sessionFile = ".session.json"
)

// Open loads the persisted session, if any.
func Open(cfg store.Config) (*Gate, error) {
	if cfg == nil {
		var err error
		cfg, err = store.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	g := &Gate{basePath: cfg.BasePath()}
	if err := os.MkdirAll(g.basePath, 0o755); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(g.basePath, sessionFile))
	if err == nil && len(data) > 0 {
		var id Identity
		if err := json.Unmarshal(data, &id); err == nil && id.ID != "" {
			g.current = &id
		}
	}
	return g, nil
}

// OnChange registers a listener and immediately invokes it with the current
// state, so startup restore behaves like any other change.
func (g *Gate) OnChange(fn Listener) {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	current := g.current
	g.mu.Unlock()
	fn(current)
}

// Current returns the signed-in identity, or false when signed out.
func (g *Gate) Current() (Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Identity{}, false
	}
	return *g.current, true
}

// OwnerID returns the signed-in owner id or store.ErrNoSession.
func (g *Gate) OwnerID() (string, error) {
	id, ok := g.Current()
	if !ok {
		return "", store.ErrNoSession
	}
	return id.ID, nil
}

type credential struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// SignUp registers the email and signs the new identity in.
func (g *Gate) SignUp(email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if err := validate(email, password); err != nil {
		return Identity{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	users, err := g.loadUsers()
	if err != nil {
		return Identity{}, err
	}
	if _, ok := users[email]; ok {
		return Identity{}, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}
	users[email] = credential{ID: uuid.NewString(), Hash: string(hash)}
	if err := g.saveUsers(users); err != nil {
		return Identity{}, err
	}

	return g.activate(Identity{ID: users[email].ID, Email: email})
}

// SignIn verifies the password and activates the session.
func (g *Gate) SignIn(email, password string) (Identity, error) {
	email = normalizeEmail(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	users, err := g.loadUsers()
	if err != nil {
		return Identity{}, err
	}
	cred, ok := users[email]
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Hash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return g.activate(Identity{ID: cred.ID, Email: email})
}

// SignOut clears the persisted session and notifies listeners.
func (g *Gate) SignOut() error {
	g.mu.Lock()
	g.current = nil
	listeners := append([]Listener(nil), g.listeners...)
	err := os.Remove(filepath.Join(g.basePath, sessionFile))
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// activate persists and publishes the new identity. Caller holds g.mu.
func (g *Gate) activate(id Identity) (Identity, error) {
	data, err := json.MarshalIndent(&id, "", "  ")
	if err != nil {
		return Identity{}, err
	}
	path := filepath.Join(g.basePath, sessionFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return Identity{}, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return Identity{}, err
	}

	g.current = &id
	listeners := append([]Listener(nil), g.listeners...)

	// Release before fan-out; listeners may call back into the gate.
	g.mu.Unlock()
	for _, fn := range listeners {
		copy := id
		fn(&copy)
	}
	g.mu.Lock()

	return id, nil
}

func (g *Gate) loadUsers() (map[string]credential, error) {
	data, err := os.ReadFile(filepath.Join(g.basePath, usersFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]credential), nil
		}
		return nil, err
	}
	users := make(map[string]credential)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &users); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (g *Gate) saveUsers(users map[string]credential) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(g.basePath, usersFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validate(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return ErrBadEmail
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
