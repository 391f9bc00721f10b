package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/dgraph-io/badger/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// KeyValueStore is the durable local state of one session.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// StoreFactory opens the key space of a session.
type StoreFactory interface {
	ForSession(sessionID string) KeyValueStore
}

// MemoryStore keeps every session in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) ForSession(sessionID string) KeyValueStore {
	return &memorySession{store: m, id: sessionID}
}

type memorySession struct {
	store *MemoryStore
	id    string
}

func (s *memorySession) Get(_ context.Context, key string) (string, bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	v, ok := s.store.data[s.id][key]
	return v, ok, nil
}

func (s *memorySession) Set(_ context.Context, key, value string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.store.data[s.id] == nil {
		s.store.data[s.id] = make(map[string]string)
	}
	s.store.data[s.id][key] = value
	return nil
}

func (s *memorySession) Clear(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.data, s.id)
	return nil
}

// BadgerStore persists sessions on local disk under "session:<id>:<key>".
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (b *BadgerStore) ForSession(sessionID string) KeyValueStore {
	return &badgerSession{db: b.db, prefix: "session:" + sessionID + ":"}
}

type badgerSession struct {
	db     *badger.DB
	prefix string
}

func (s *badgerSession) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(s.prefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *badgerSession) Set(_ context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(s.prefix+key), []byte(value))
	})
}

func (s *badgerSession) Clear(_ context.Context) error {
	return s.db.DropPrefix([]byte(s.prefix))
}

// FirestoreStore keeps one document per key in sessions/<id>/state.
type FirestoreStore struct {
	FirestoreClient *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{FirestoreClient: client}
}

func (f *FirestoreStore) ForSession(sessionID string) KeyValueStore {
	return &firestoreSession{
		client: f.FirestoreClient,
		state:  f.FirestoreClient.Collection("sessions").Doc(sessionID).Collection("state"),
	}
}

type firestoreSession struct {
	client *firestore.Client
	state  *firestore.CollectionRef
}

type firestoreValue struct {
	Value string `firestore:"value"`
}

func (s *firestoreSession) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.state.Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}

	var v firestoreValue
	if err := doc.DataTo(&v); err != nil {
		return "", false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v.Value, true, nil
}

func (s *firestoreSession) Set(ctx context.Context, key, value string) error {
	_, err := s.state.Doc(key).Set(ctx, firestoreValue{Value: value})
	return err
}

func (s *firestoreSession) Clear(ctx context.Context) error {
	iter := s.state.Documents(ctx)
	defer iter.Stop()

	batch := s.client.Batch()
	pending := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		batch.Delete(doc.Ref)
		pending++
	}
	if pending == 0 {
		return nil
	}
	_, err := batch.Commit(ctx)
	return err
}
