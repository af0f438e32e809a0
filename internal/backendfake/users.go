package backendfake

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is a backend account together with its game character.
type User struct {
	AuthID       int64
	Username     string
	RealName     string
	Email        string
	PasswordHash string
	Gold         int64
	Gems         int64
	Power        int64
}

func hashPassword(password string) (string, error) {
	// MinCost keeps test suites fast; the fake never stores real passwords.
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

func (u *User) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

type userRepo struct {
	mu     sync.RWMutex
	byName map[string]*User
	byID   map[int64]*User
	nextID int64
}

func newUserRepo() *userRepo {
	return &userRepo{byName: map[string]*User{}, byID: map[int64]*User{}, nextID: 1}
}

func (r *userRepo) add(username, realName, email, password string) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[userRepo add] hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(username)
	if _, exists := r.byName[key]; exists {
		return nil, errUserExists
	}
	u := &User{
		AuthID:       r.nextID,
		Username:     username,
		RealName:     realName,
		Email:        email,
		PasswordHash: hash,
		Gold:         1000 * r.nextID,
		Gems:         10 * r.nextID,
		Power:        5000 * r.nextID,
	}
	r.nextID++
	r.byName[key] = u
	r.byID[u.AuthID] = u
	return u, nil
}

func (r *userRepo) get(username string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byName[strings.ToLower(username)]
	return u, ok
}

func (r *userRepo) getByID(id int64) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	return u, ok
}

func (r *userRepo) setPassword(u *User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("[userRepo setPassword] %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u.PasswordHash = hash
	return nil
}

func (r *userRepo) all() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out
}
