// Package ledger persists bills keyed by event id. Writes are idempotent:
// recording an already-known event is a no-op, which makes the billing
// consumer safe under at-least-once delivery.
package ledger

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/asemenkov/ecomm-backend/internal/domain"
)

const billsBucket = "bills"

type Ledger struct {
	db   *bolt.DB
	seen *lru.Cache[string, struct{}]
}

// Open opens (or creates) the bolt file and ensures the bills bucket exists.
// dedupCap bounds the in-memory recently-seen set fronting the disk lookups.
func Open(path string, dedupCap int) (*Ledger, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(billsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	seen, err := lru.New[string, struct{}](dedupCap)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db, seen: seen}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Seen reports whether a bill for eventID was already recorded.
func (l *Ledger) Seen(eventID string) (bool, error) {
	if _, ok := l.seen.Get(eventID); ok {
		return true, nil
	}
	var found bool
	err := l.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(billsBucket)).Get([]byte(eventID)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		l.seen.Add(eventID, struct{}{})
	}
	return found, nil
}

// Record stores the bill under its event id. If a bill for that event already
// exists the stored one wins, created is false and no write happens.
func (l *Ledger) Record(bill domain.Bill) (created bool, err error) {
	err = l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(billsBucket))
		if b.Get([]byte(bill.EventID)) != nil {
			return nil
		}
		data, merr := json.Marshal(bill)
		if merr != nil {
			return merr
		}
		created = true
		return b.Put([]byte(bill.EventID), data)
	})
	if err != nil {
		return false, err
	}
	l.seen.Add(bill.EventID, struct{}{})
	return created, nil
}

// Bill returns the recorded bill for eventID, or domain.ErrNotFound.
func (l *Ledger) Bill(eventID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(billsBucket)).Get([]byte(eventID))
		if v == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(v, &bill)
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
