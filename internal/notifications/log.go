package notifications

import (
	"encoding/binary"
	"os"
	"strings"
	"time"

	"finance-manager/internal/models"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const fileMode os.FileMode = 0600

var bucketName = []byte("notifications")

// Log is an append-only record of dispatched notifications kept in a bolt
// file.
type Log struct {
	db *bolt.DB
}

// OpenLog opens or creates the bolt file at path.
func OpenLog(path string) (*Log, error) {
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

// Append stores n and assigns its ID.
func (l *Log) Append(n *models.Notification) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		n.ID = id

		data, err := json.Marshal(n)
		if err != nil {
			return err
		}
		return b.Put(key(id), data)
	})
}

// List returns the notifications sent to email, oldest first. An empty
// email lists everything.
func (l *Log) List(email string) ([]models.Notification, error) {
	out := []models.Notification{}
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, v []byte) error {
			var n models.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if email == "" || strings.EqualFold(n.Event.Email, email) {
				out = append(out, n)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the bolt file.
func (l *Log) Close() error {
	return l.db.Close()
}

func key(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
