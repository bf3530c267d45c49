package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lux2go/lux2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketActuator = "actuator"
	BucketHistory  = "history"

	keyPosition = "position"
)

// ActuatorRecord is the last position commanded to the actuator
type ActuatorRecord struct {
	Position int       `json:"position"`
	Time     time.Time `json:"time"`
}

// HistorySnapshot is the filtered illuminance history of a single channel, oldest first
type HistorySnapshot struct {
	Channel string    `json:"channel"`
	Time    time.Time `json:"time"`
	Values  []float64 `json:"values"`
}

type Persistence interface {
	Init() error

	LoadActuatorPosition() (ActuatorRecord, error)
	SaveActuatorPosition(record ActuatorRecord) error

	LoadHistory(channel string) (HistorySnapshot, error)
	SaveHistory(snapshot HistorySnapshot) error
	DeleteHistory(channel string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// LoadActuatorPosition loads the last commanded actuator position,
// returns os.ErrNotExist if none was saved yet
func (p persistence) LoadActuatorPosition() (record ActuatorRecord, err error) {
	err = p.load(BucketActuator, keyPosition, &record)
	return record, err
}

// SaveActuatorPosition saves the last commanded actuator position
func (p persistence) SaveActuatorPosition(record ActuatorRecord) error {
	return p.save(BucketActuator, keyPosition, record)
}

// LoadHistory loads the filtered history of the given channel,
// returns os.ErrNotExist if none was saved yet
func (p persistence) LoadHistory(channel string) (snapshot HistorySnapshot, err error) {
	err = p.load(BucketHistory, channel, &snapshot)
	return snapshot, err
}

// SaveHistory saves the filtered history of a channel, replacing any previous one
func (p persistence) SaveHistory(snapshot HistorySnapshot) error {
	return p.save(BucketHistory, snapshot.Channel, snapshot)
}

func (p persistence) DeleteHistory(channel string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketHistory))
		if b == nil {
			// no history bucket yet
			return nil
		}
		return b.Delete([]byte(channel))
	})
}

func (p persistence) save(bucket string, key string, value interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(key), data)
	})
}

func (p persistence) load(bucket string, key string, target interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	corrupt := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(key))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, target)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved %s data for %s: %v", bucket, key, err)
			err := b.Delete([]byte(key))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", key, err)
			}
			corrupt = true
		}
		return nil
	})
	if err == nil && corrupt {
		return os.ErrNotExist
	}
	return err
}
