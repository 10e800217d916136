// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry keeps the discovery index of launched pools. It is a
// fire-and-forget collaborator: the trading core notifies it of creations
// and graduations and never learns whether the write stuck. A lost record
// costs discoverability, not funds.
package registry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
)

var recordPrefix = []byte("launchrec:")

// Record is one discoverable launch.
type Record struct {
	ID        [32]byte
	Mint      common.Address
	Name      string
	Symbol    string
	Creator   common.Address
	CreatedAt uint64
	Graduated bool
}

// Registry persists launch records to a database.
type Registry struct {
	db  database.Database
	log log.Logger
}

// New returns a registry over db.
func New(db database.Database, logger log.Logger) *Registry {
	return &Registry{db: db, log: logger}
}

// PoolCreated records a new launch. Errors are logged and swallowed.
func (r *Registry) PoolCreated(id [32]byte, mint common.Address, name, symbol string, creator common.Address, createdAt uint64) {
	rec := Record{
		ID:        id,
		Mint:      mint,
		Name:      name,
		Symbol:    symbol,
		Creator:   creator,
		CreatedAt: createdAt,
	}
	if err := r.db.Put(recordKey(id), encodeRecord(&rec)); err != nil {
		r.log.Warn("failed to record pool creation", "pool", common.Hash(id).Hex(), "err", err)
	}
}

// PoolGraduated flips the graduated flag on an existing record. A missing
// record is logged, not invented; the core is the source of truth.
func (r *Registry) PoolGraduated(id [32]byte) {
	rec, err := r.Get(id)
	if err != nil {
		r.log.Warn("failed to record graduation", "pool", common.Hash(id).Hex(), "err", err)
		return
	}
	rec.Graduated = true
	if err := r.db.Put(recordKey(id), encodeRecord(rec)); err != nil {
		r.log.Warn("failed to record graduation", "pool", common.Hash(id).Hex(), "err", err)
	}
}

// Get returns one record by pool ID.
func (r *Registry) Get(id [32]byte) (*Record, error) {
	raw, err := r.db.Get(recordKey(id))
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// List returns every record, iteration order by pool ID.
func (r *Registry) List() ([]*Record, error) {
	iter := r.db.NewIteratorWithPrefix(recordPrefix)
	defer iter.Release()

	var out []*Record
	for iter.Next() {
		rec, err := decodeRecord(iter.Value())
		if err != nil {
			r.log.Warn("skipping corrupt launch record", "key", fmt.Sprintf("%x", iter.Key()), "err", err)
			continue
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}

func recordKey(id [32]byte) []byte {
	return append(append([]byte{}, recordPrefix...), id[:]...)
}

// Record wire format:
//
//	id (32) | mint (20) | creator (20) | createdAt (8) | graduated (1) |
//	nameLen (1) | name | symLen (1) | symbol
func encodeRecord(rec *Record) []byte {
	name := rec.Name
	if len(name) > 255 {
		name = name[:255]
	}
	symbol := rec.Symbol
	if len(symbol) > 255 {
		symbol = symbol[:255]
	}

	buf := make([]byte, 0, 83+len(name)+len(symbol))
	buf = append(buf, rec.ID[:]...)
	buf = append(buf, rec.Mint.Bytes()...)
	buf = append(buf, rec.Creator.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, rec.CreatedAt)
	if rec.Graduated {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	buf = append(buf, byte(len(symbol)))
	buf = append(buf, symbol...)
	return buf
}

func decodeRecord(raw []byte) (*Record, error) {
	if len(raw) < 83 {
		return nil, errors.New("launch record too short")
	}
	rec := &Record{}
	copy(rec.ID[:], raw[0:32])
	rec.Mint = common.BytesToAddress(raw[32:52])
	rec.Creator = common.BytesToAddress(raw[52:72])
	rec.CreatedAt = binary.BigEndian.Uint64(raw[72:80])
	rec.Graduated = raw[80] == 1

	rest := raw[81:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return nil, errors.New("launch record name truncated")
	}
	rec.Name = string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	symLen := int(rest[0])
	if len(rest) < 1+symLen {
		return nil, errors.New("launch record symbol truncated")
	}
	rec.Symbol = string(rest[1 : 1+symLen])
	return rec, nil
}
