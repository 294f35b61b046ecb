package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Idempotency Handler middleware
// ===========================================================================

const IdempotencyKeyHeader = "Idempotency-Key"

type IdempotencyStoreType int

const (
	IdempotencyStoreTypeLocal IdempotencyStoreType = iota
	IdempotencyStoreTypeShared
	IdempotencyStoreTypeRedis
)

func (ist IdempotencyStoreType) String() string {
	return [...]string{"local", "shared", "redis"}[ist]
}

type IdempotencyHandlerOptions struct {
	IgnorePaths []string
	Expiry      time.Duration
	// Reject POST requests that carry no key, otherwise they pass through unchecked
	RequireKey bool
}

type IdempotencyStore interface {
	// Get reports whether key has been used and has not expired yet.
	Get(key string) (bool, error)
	// Set marks key as used for expiry.
	Set(key string, expiry time.Duration) error
	// Delete releases key so it can be used again.
	Delete(key string) error
}

// Redis store for idempotency keys
type IdempotencyStoreRedis struct {
	pool   *redis.Pool
	prefix string
}

func NewIdempotencyStoreRedis(pool *redis.Pool) *IdempotencyStoreRedis {
	return &IdempotencyStoreRedis{pool: pool, prefix: "idempotencykey"}
}

func (r *IdempotencyStoreRedis) prefixedKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *IdempotencyStoreRedis) Get(key string) (bool, error) {
	conn := r.pool.Get()
	defer conn.Close()

	return redis.Bool(conn.Do("EXISTS", r.prefixedKey(key)))
}

func (r *IdempotencyStoreRedis) Set(key string, expiry time.Duration) error {
	conn := r.pool.Get()
	defer conn.Close()

	res, err := redis.String(conn.Do("PSETEX", r.prefixedKey(key), expiry.Milliseconds(), 1))
	if err != nil {
		return err
	}

	if res != "OK" {
		return fmt.Errorf("failed to set key: %v", res)
	}

	return nil
}

func (r *IdempotencyStoreRedis) Delete(key string) error {
	conn := r.pool.Get()
	defer conn.Close()

	_, err := conn.Do("DEL", r.prefixedKey(key))
	return err
}

// Gorm (SQL) store for idempotency keys
type IdempotencyStoreGorm struct {
	db *gorm.DB
}

type IdempotencyStoreGormItem struct {
	Key        string    `gorm:"column:key;primaryKey;size:255"`
	ExpiryDate time.Time `gorm:"column:expiry_date;index"`
}

func (IdempotencyStoreGormItem) TableName() string {
	return "idempotency_keys"
}

func NewIdempotencyStoreGorm(db *gorm.DB) *IdempotencyStoreGorm {
	return &IdempotencyStoreGorm{db: db}
}

func (g *IdempotencyStoreGorm) Get(key string) (bool, error) {
	item := IdempotencyStoreGormItem{}
	err := g.db.First(&item, "key = ? and expiry_date > ?", key, time.Now()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

func (g *IdempotencyStoreGorm) Set(key string, expiry time.Duration) error {
	// Refresh the expiry date of an expired key that was not pruned yet
	return g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"expiry_date"}),
	}).Create(&IdempotencyStoreGormItem{Key: key, ExpiryDate: time.Now().Add(expiry)}).Error
}

func (g *IdempotencyStoreGorm) Delete(key string) error {
	return g.db.Delete(&IdempotencyStoreGormItem{}, "key = ?", key).Error
}

// Prune deletes all expired keys from the database.
func (g *IdempotencyStoreGorm) Prune() (int64, error) {
	res := g.db.Delete(&IdempotencyStoreGormItem{}, "expiry_date < ?", time.Now())
	return res.RowsAffected, res.Error
}

// Local / in-memory store for idempotency keys, only usable with a single instance
type IdempotencyStoreLocal struct {
	mu   sync.Mutex
	keys map[string]time.Time // key: expiry
}

func NewIdempotencyStoreLocal() *IdempotencyStoreLocal {
	return &IdempotencyStoreLocal{keys: make(map[string]time.Time)}
}

func (m *IdempotencyStoreLocal) Get(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.keys[key]
	if !ok {
		return false, nil
	}

	if v.After(time.Now()) {
		return true, nil
	}

	// Expired keys are removed as a side effect
	delete(m.keys, key)
	return false, nil
}

func (m *IdempotencyStoreLocal) Set(key string, expiry time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keys[key] = time.Now().Add(expiry)
	return nil
}

func (m *IdempotencyStoreLocal) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keys, key)
	return nil
}

// IdempotencyHandler returns a http.Handler that rejects POST requests
// reusing an Idempotency-Key within its expiry. A key whose request did not
// succeed is released.
func IdempotencyHandler(h http.Handler, opts IdempotencyHandlerOptions, store IdempotencyStore) http.Handler {
	// Get and Set are not atomic in every store
	var mu sync.Mutex

	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		for _, path := range opts.IgnorePaths {
			if strings.HasPrefix(r.URL.Path, path) {
				h.ServeHTTP(rw, r)
				return
			}
		}

		// Only POST requests are checked
		if r.Method != http.MethodPost {
			h.ServeHTTP(rw, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			if opts.RequireKey {
				http.Error(rw, "Idempotency-Key header not found", http.StatusBadRequest)
				return
			}
			h.ServeHTTP(rw, r)
			return
		}

		mu.Lock()
		exists, err := store.Get(key)
		if err == nil && !exists {
			err = store.Set(key, opts.Expiry)
		}
		mu.Unlock()

		if err != nil {
			log.
				WithFields(log.Fields{"error": err, "key": key}).
				Warn("Error while using idempotency key storage")
			http.Error(rw, "Error while checking idempotency key", http.StatusInternalServerError)
			return
		}

		// Only the key is stored, a reused key with a different payload is
		// also a conflict
		if exists {
			http.Error(rw, fmt.Sprintf("Idempotency-Key conflict, key: %s", key), http.StatusConflict)
			return
		}

		// Keys of failed requests are released so the request can be retried
		status, wroteHeader := http.StatusOK, false
		rw = httpsnoop.Wrap(rw, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					if !wroteHeader {
						status, wroteHeader = code, true
					}
					next(code)
				}
			},
		})

		h.ServeHTTP(rw, r)

		if status < 200 || status >= 300 {
			mu.Lock()
			err := store.Delete(key)
			mu.Unlock()

			if err != nil {
				log.
					WithFields(log.Fields{"error": err, "key": key}).
					Warn("Error while releasing idempotency key")
			}
		}
	})
}
