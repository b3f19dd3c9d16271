package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"cbtrader/pkg/types"
)

const fileName = "orders.msgpack"

// Entry is one journaled placement result. Decimal fields are stored as
// strings so the journal stays exact and readable by other tooling.
type Entry struct {
	At        time.Time `msgpack:"at"`
	OrderId   string    `msgpack:"order_id"`
	ProductId string    `msgpack:"product_id"`
	Side      string    `msgpack:"side"`
	Type      string    `msgpack:"type"`
	Size      string    `msgpack:"size"`
	Price     string    `msgpack:"price"`
	Status    string    `msgpack:"status"`
}

// Uploader mirrors journal entries to remote storage.
type Uploader interface {
	Upload(key string, body []byte) error
}

// Journal appends terminal orders to a local msgpack stream and optionally
// mirrors each entry to an uploader. Recording is best-effort: failures are
// logged and never surfaced to the placement flow.
type Journal struct {
	mu        sync.Mutex
	file      *os.File
	uploader  Uploader
	keyPrefix string
	now       func() time.Time
}

func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fail to create journal dir %q: %w", dir, err)
	}
	file, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("fail to open journal file: %w", err)
	}
	return &Journal{file: file, now: time.Now}, nil
}

// UseUploader mirrors every entry to remote storage under keyPrefix.
func (j *Journal) UseUploader(uploader Uploader, keyPrefix string) {
	j.uploader = uploader
	j.keyPrefix = keyPrefix
}

// Record appends the order to the journal.
func (j *Journal) Record(order types.Order) {
	entry := Entry{
		At:        j.now().UTC(),
		OrderId:   order.Id,
		ProductId: order.ProductId,
		Side:      string(order.Side),
		Type:      string(order.Type),
		Size:      order.Size.String(),
		Status:    string(order.Status),
	}
	if order.HasPrice() {
		entry.Price = order.Price.String()
	}

	body, err := msgpack.Marshal(entry)
	if err != nil {
		log.Errorf("fail to encode journal entry for %s: %v", order.Id, err)
		return
	}

	j.mu.Lock()
	_, err = j.file.Write(body)
	j.mu.Unlock()
	if err != nil {
		log.Errorf("fail to append journal entry for %s: %v", order.Id, err)
	}

	if j.uploader != nil {
		key := fmt.Sprintf("%s/%d-%s", j.keyPrefix, entry.At.UnixNano(), order.Id)
		if err := j.uploader.Upload(key, body); err != nil {
			log.Errorf("fail to mirror journal entry %s: %v", key, err)
		}
	}
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Read decodes all entries from a journal file.
func Read(dir string) ([]Entry, error) {
	file, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	dec := msgpack.NewDecoder(file)
	for {
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, fmt.Errorf("fail to decode journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
}
