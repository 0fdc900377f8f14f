package vm

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ProgramStore is a content-addressed store of encoded compiled units.
//
// Programs are keyed by the SHA-256 of their canonical wire bytes, so
// the same program stored twice is one row and a hash fully identifies
// what will run. Backed by SQLite; ":memory:" works for tests.
type ProgramStore struct {
	db *sql.DB
}

// ErrProgramNotFound indicates no program exists for the given hash.
var ErrProgramNotFound = errors.New("program not found")

const programSchema = `
CREATE TABLE IF NOT EXISTS programs (
	hash       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// OpenProgramStore opens (creating if needed) a store at path.
func OpenProgramStore(path string) (*ProgramStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("program store: open %s: %w", path, err)
	}
	if _, err := db.Exec(programSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("program store: init schema: %w", err)
	}
	return &ProgramStore{db: db}, nil
}

// Close releases the underlying database.
func (ps *ProgramStore) Close() error {
	return ps.db.Close()
}

// Put encodes fn and stores it, returning its content hash. Storing a
// program that already exists is a no-op returning the same hash.
func (ps *ProgramStore) Put(vm *VM, fn *CompiledFunc) (string, error) {
	data, err := vm.EncodeFunc(fn)
	if err != nil {
		return "", fmt.Errorf("program store: encode %s: %w", fn, err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	_, err = ps.db.Exec(
		`INSERT INTO programs (hash, name, data) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`,
		hash, fn.Name, data)
	if err != nil {
		return "", fmt.Errorf("program store: insert %s: %w", hash, err)
	}
	return hash, nil
}

// Get loads and decodes the program with the given content hash.
func (ps *ProgramStore) Get(vm *VM, hash string) (*CompiledFunc, error) {
	var data []byte
	err := ps.db.QueryRow(`SELECT data FROM programs WHERE hash = ?`, hash).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("program store: %s: %w", hash, ErrProgramNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("program store: query %s: %w", hash, err)
	}

	// Verify content addressing before handing the bytes to the decoder.
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != hash {
		return nil, fmt.Errorf("program store: %s: stored bytes do not match hash", hash)
	}
	return vm.DecodeFunc(data)
}

// ProgramInfo describes one stored program.
type ProgramInfo struct {
	Hash string
	Name string
}

// List returns the hashes and names of all stored programs.
func (ps *ProgramStore) List() ([]ProgramInfo, error) {
	rows, err := ps.db.Query(`SELECT hash, name FROM programs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("program store: list: %w", err)
	}
	defer rows.Close()

	var infos []ProgramInfo
	for rows.Next() {
		var info ProgramInfo
		if err := rows.Scan(&info.Hash, &info.Name); err != nil {
			return nil, fmt.Errorf("program store: scan: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
