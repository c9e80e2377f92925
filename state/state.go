// Package state implements the account+storage state store: account map,
// contract code & storage, Merkle state root, and scoped snapshot/rollback.
// Grounded on the teacher's account/account.go (CreateAccount, Add/SubBalance,
// PutIntoDisk/GetFromDisk over levelDB) generalized to the spec's account
// subtree Merkle root and explicit snapshot handles.
package state

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/merkletree"
	"github.com/aegenchain/aegen-core/storage"
	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/word256"
)

type storageKey struct {
	contract types.Address
	key      word256.Word
}

// Store is the reader-writer-locked account cache backed by a persistent
// KV. Reads are shared-concurrent; writes are exclusive, per spec §4.3/§5.
type Store struct {
	mu sync.RWMutex

	accounts map[types.Address]types.AccountState
	code     map[types.Address][]byte
	storage  map[storageKey]word256.Word

	db *storage.DB

	snapshots map[int]snapshotData
	nextHandle int
}

type snapshotData struct {
	accounts map[types.Address]types.AccountState
	code     map[types.Address][]byte
	storage  map[storageKey]word256.Word
}

// New constructs an empty Store optionally backed by a persistent KV (pass
// nil for an in-memory-only store, useful in tests and the validator's
// re-execution snapshot).
func New(db *storage.DB) *Store {
	return &Store{
		accounts:  make(map[types.Address]types.AccountState),
		code:      make(map[types.Address][]byte),
		storage:   make(map[storageKey]word256.Word),
		db:        db,
		snapshots: make(map[int]snapshotData),
	}
}

var (
	accountKeyPrefix = []byte("acc:")
	codeKeyPrefix    = []byte("code:")
)

// Load reads every account and code entry out of the backing KV into
// memory. Call once at startup after Open.
func (s *Store) Load() error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.ScanPrefix(accountKeyPrefix, func(k, v []byte) bool {
		addr := types.Address(k[len(accountKeyPrefix):])
		if len(v) >= 16 {
			s.accounts[addr] = types.AccountState{
				Nonce:   binary.BigEndian.Uint64(v[0:8]),
				Balance: binary.BigEndian.Uint64(v[8:16]),
			}
		}
		return true
	}); err != nil {
		return err
	}
	return s.db.ScanPrefix(codeKeyPrefix, func(k, v []byte) bool {
		addr := types.Address(k[len(codeKeyPrefix):])
		buf := make([]byte, len(v))
		copy(buf, v)
		s.code[addr] = buf
		return true
	})
}

// GetAccount returns the account state for addr, defaulting to the zero
// value for unknown addresses (not an error).
func (s *Store) GetAccount(addr types.Address) types.AccountState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[addr]
}

// PutAccount sets the account state for addr.
func (s *Store) PutAccount(addr types.Address, st types.AccountState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[addr] = st
}

// GetCode returns the contract code at addr, or nil if none is deployed.
func (s *Store) GetCode(addr types.Address) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.code[addr]
}

// PutCode stores contract code at addr.
func (s *Store) PutCode(addr types.Address, code []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(code))
	copy(buf, code)
	s.code[addr] = buf
}

// GetStorage reads a 256-bit contract storage slot.
func (s *Store) GetStorage(contract types.Address, key word256.Word) word256.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage[storageKey{contract, key}]
}

// PutStorage writes a 256-bit contract storage slot.
func (s *Store) PutStorage(contract types.Address, key, val word256.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[storageKey{contract, key}] = val
}

// StateRoot computes the Merkle root over the sorted-by-address set of
// H(addr || nonce || balance) leaves, per spec §4.3.
func (s *Store) StateRoot() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateRootLocked()
}

func (s *Store) stateRootLocked() [32]byte {
	addrs := make([]types.Address, 0, len(s.accounts))
	for a := range s.accounts {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	leaves := make([][32]byte, 0, len(addrs))
	for _, a := range addrs {
		acc := s.accounts[a]
		var buf [16]byte
		binary.BigEndian.PutUint64(buf[0:8], acc.Nonce)
		binary.BigEndian.PutUint64(buf[8:16], acc.Balance)
		leaves = append(leaves, cryptoutil.HashConcat([]byte(a), buf[:]))
	}
	return merkletree.Root(leaves)
}

// Snapshot captures the current state and returns an opaque handle.
func (s *Store) Snapshot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.nextHandle
	s.nextHandle++
	s.snapshots[h] = snapshotData{
		accounts: cloneAccounts(s.accounts),
		code:     cloneCode(s.code),
		storage:  cloneStorage(s.storage),
	}
	return h
}

// Rollback restores the state captured at handle and discards it.
func (s *Store) Rollback(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[handle]
	if !ok {
		return
	}
	s.accounts = snap.accounts
	s.code = snap.code
	s.storage = snap.storage
	delete(s.snapshots, handle)
}

// Commit discards the snapshot at handle (keeping current state) and, if
// backed by a KV, persists the account and code maps.
func (s *Store) Commit(handle int) error {
	s.mu.Lock()
	delete(s.snapshots, handle)
	db := s.db
	accounts := cloneAccounts(s.accounts)
	code := cloneCode(s.code)
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	wb := storage.NewBatch()
	for addr, acc := range accounts {
		var buf [16]byte
		binary.BigEndian.PutUint64(buf[0:8], acc.Nonce)
		binary.BigEndian.PutUint64(buf[8:16], acc.Balance)
		wb.Put(append(append([]byte{}, accountKeyPrefix...), []byte(addr)...), buf[:])
	}
	for addr, c := range code {
		wb.Put(append(append([]byte{}, codeKeyPrefix...), []byte(addr)...), c)
	}
	if err := db.WriteBatch(wb); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

func cloneAccounts(m map[types.Address]types.AccountState) map[types.Address]types.AccountState {
	out := make(map[types.Address]types.AccountState, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneCode(m map[types.Address][]byte) map[types.Address][]byte {
	out := make(map[types.Address][]byte, len(m))
	for k, v := range m {
		buf := make([]byte, len(v))
		copy(buf, v)
		out[k] = buf
	}
	return out
}

func cloneStorage(m map[storageKey]word256.Word) map[storageKey]word256.Word {
	out := make(map[storageKey]word256.Word, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WrapStorageError surfaces an underlying KV I/O failure per spec §7.
func WrapStorageError(op string, err error) error {
	return fmt.Errorf("state: %s: %w: %v", op, aerr.ErrStorage, err)
}
