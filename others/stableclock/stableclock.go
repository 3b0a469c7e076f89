// stableclock generates version 1 UUIDs with node identity and clock
// sequence held in MySQL, the stable storage that RFC 4122 section 4.2.1
// describes and that the core library deliberately replaces with per-call
// randomness. Every service tag owns one row; leasing the row increments its
// clock sequence, so a process restarted after losing its in-memory
// timestamp can never repeat an identifier.
//
// The backing table:
//
//	CREATE TABLE uuid_v1_state (
//	    service_tag VARCHAR(128) NOT NULL PRIMARY KEY,
//	    node        CHAR(12)     NOT NULL, -- 6 node bytes, hex
//	    clock_seq   INT          NOT NULL, -- 14-bit clock sequence
//	    last_ticks  BIGINT       NOT NULL  -- last flushed timestamp, 100ns ticks
//	);
package main

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/lab2439/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// Difference in 100-nanosecond intervals between the UUID epoch
	// (October 15, 1582) and the Unix epoch (January 1, 1970).
	epochStart = 122192928000000000

	ticksPerMilli = 10000 // 100-nanosecond intervals per millisecond

	// A wall clock reading this far behind the last issued timestamp is a
	// rollback; anything closer rides the sub-millisecond tick counter.
	rollbackTicks = 5 * ticksPerMilli

	// Flush the in-memory timestamp once it has advanced this far past the
	// stored value.
	flushTicks = 3000 * ticksPerMilli
)

// Config is read from stableclock.yaml; a missing file keeps the defaults.
type Config struct {
	DSN        string `yaml:"dsn"`
	ServiceTag string `yaml:"service_tag"`
	Routines   int    `yaml:"routines"`
	PerRoutine int    `yaml:"per_routine"`
}

func defaultConfig() *Config {
	return &Config{
		DSN:        "uuid:uuid@tcp(127.0.0.1:3306)/uuid_state?parseTime=true",
		ServiceTag: "order-service",
		Routines:   10,
		PerRoutine: 500,
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ClockState is the persisted generation state leased for one service tag.
type ClockState struct {
	Node      []byte // 6-byte node identity, multicast bit set
	ClockSeq  uint16 // 14-bit clock sequence
	LastTicks int64  // last flushed timestamp, 100ns ticks since the UUID epoch
}

// StateDAO encapsulates all database operations on the v1 state table.
type StateDAO struct {
	db *sql.DB
}

// NewStateDAO creates a new DAO with the provided database DSN.
func NewStateDAO(dsn string) (*StateDAO, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// DB performance and safety tuning
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return &StateDAO{
		db: db,
	}, nil
}

// LeaseState reserves the v1 generation state for the given service tag,
// using a transaction. The clock sequence is incremented on every lease, so
// two processes (or one process restarted) never share a sequence value;
// the first lease of a tag inserts a fresh identity.
func (dao *StateDAO) LeaseState(serviceTag string) (*ClockState, error) {
	tx, err := dao.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Step 1: atomically advance the clock sequence. The row lock also
	// serializes concurrent leases of the same tag.
	res, err := tx.ExecContext(context.Background(),
		"UPDATE uuid_v1_state SET clock_seq = MOD(clock_seq + 1, 16384) WHERE service_tag = ?", serviceTag)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// First lease of this tag: mint a node identity and a random
		// starting sequence.
		node, seq, err := newNodeIdentity()
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(context.Background(),
			"INSERT INTO uuid_v1_state (service_tag, node, clock_seq, last_ticks) VALUES (?, ?, ?, 0)",
			serviceTag, hex.EncodeToString(node), seq)
		if err != nil {
			return nil, err
		}
	}

	// Step 2: read back the leased state.
	var nodeHex string
	var clockSeq int
	var lastTicks int64
	err = tx.QueryRowContext(context.Background(),
		"SELECT node, clock_seq, last_ticks FROM uuid_v1_state WHERE service_tag = ?", serviceTag).
		Scan(&nodeHex, &clockSeq, &lastTicks)
	if err != nil {
		return nil, err
	}

	// Commit transaction
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	node, err := hex.DecodeString(nodeHex)
	if err != nil || len(node) != 6 {
		return nil, fmt.Errorf("corrupt node identity for tag %q: %q", serviceTag, nodeHex)
	}

	return &ClockState{
		Node:      node,
		ClockSeq:  uint16(clockSeq) & 0x3FFF,
		LastTicks: lastTicks,
	}, nil
}

// SaveTicks persists the last issued timestamp for the given service tag.
func (dao *StateDAO) SaveTicks(serviceTag string, ticks int64) error {
	_, err := dao.db.ExecContext(context.Background(),
		"UPDATE uuid_v1_state SET last_ticks = ? WHERE service_tag = ?", ticks, serviceTag)
	return err
}

// newNodeIdentity draws a 6-byte node and a 14-bit clock sequence from the
// library's secure source. The multicast bit marks the node as randomly
// generated rather than a hardware address (RFC 4122 section 4.5).
func newNodeIdentity() ([]byte, uint16, error) {
	var buf [8]byte
	if _, err := io.ReadFull(uuid.SecureSource(), buf[:]); err != nil {
		return nil, 0, err
	}
	node := make([]byte, 6)
	copy(node, buf[0:6])
	node[0] |= 0x01
	seq := binary.BigEndian.Uint16(buf[6:8]) & 0x3FFF
	return node, seq, nil
}

// StableGenerator issues version 1 UUIDs for one service tag from leased
// state. The wall clock is read at millisecond resolution; calls landing in
// the same millisecond advance through its 10000-tick budget of
// 100-nanosecond intervals, and a rollback beyond rollbackTicks increments
// the clock sequence as RFC 4122 section 4.2.1 prescribes.
type StableGenerator struct {
	serviceTag string

	mu        sync.Mutex // protects the clock state below
	node      [6]byte
	clockSeq  uint16
	lastTicks int64

	isFlushing   int32 // atomic flag for the ongoing flush goroutine
	flushedTicks int64 // last value persisted, accessed atomically

	dao *StateDAO
}

// NewStableGenerator constructs a generator for the given tag with the DAO injected.
func NewStableGenerator(serviceTag string, dao *StateDAO) *StableGenerator {
	return &StableGenerator{
		serviceTag: serviceTag,
		dao:        dao,
	}
}

// Init leases the persisted state for this generator's tag.
func (g *StableGenerator) Init() error {
	state, err := g.dao.LeaseState(g.serviceTag)
	if err != nil {
		return err
	}
	copy(g.node[:], state.Node)
	g.clockSeq = state.ClockSeq
	// Never issue below the flushed timestamp, even if the clock regressed
	// while the process was down.
	g.lastTicks = state.LastTicks
	atomic.StoreInt64(&g.flushedTicks, state.LastTicks)
	return nil
}

// NextUUID issues the next version 1 UUID. Thread safe.
func (g *StableGenerator) NextUUID() uuid.UUID {
	g.mu.Lock()

	now := time.Now().UnixMilli()*ticksPerMilli + epochStart
	switch {
	case now > g.lastTicks:
		g.lastTicks = now
	case g.lastTicks-now < rollbackTicks:
		// Same millisecond or a tiny regression: simulate a higher
		// resolution clock with the tick counter.
		g.lastTicks++
	default:
		// Real rollback: a bumped clock sequence keeps the re-issued
		// timestamps unique.
		g.clockSeq = (g.clockSeq + 1) & 0x3FFF
		g.lastTicks = now
	}
	ticks := g.lastTicks
	clockSeq := g.clockSeq
	g.mu.Unlock()

	g.maybeFlush(ticks)

	return packV1(ticks, clockSeq, g.node)
}

// maybeFlush persists lastTicks once it has advanced far enough past the
// stored value. Only one goroutine can flush at a time (CAS protected).
func (g *StableGenerator) maybeFlush(ticks int64) {
	// If a flush is in progress or the stored value is fresh, return early.
	if atomic.LoadInt32(&g.isFlushing) == 1 {
		return
	}
	if ticks-atomic.LoadInt64(&g.flushedTicks) < flushTicks {
		return
	}

	// Set isFlushing=1 and start a goroutine to persist the timestamp
	if atomic.CompareAndSwapInt32(&g.isFlushing, 0, 1) {
		go func() {
			defer atomic.StoreInt32(&g.isFlushing, 0) // always reset flushing flag

			if err := g.dao.SaveTicks(g.serviceTag, ticks); err != nil {
				log.Printf("flush %s state: %v", g.serviceTag, err)
				return
			}
			atomic.StoreInt64(&g.flushedTicks, ticks)
		}()
	}
}

// packV1 assembles the RFC 4122 version 1 layout from its three fields.
func packV1(ticks int64, clockSeq uint16, node [6]byte) uuid.UUID {
	timeLow := uint64(ticks) & 0xFFFFFFFF
	timeMid := uint64(ticks) >> 32 & 0xFFFF
	timeHi := uint64(ticks)>>48&0x0FFF | 0x1000 // version 1

	msb := timeLow<<32 | timeMid<<16 | timeHi
	lsb := uint64(clockSeq|0x8000)<<48 | // variant 10xx xxxx
		uint64(node[0])<<40 | uint64(node[1])<<32 | uint64(node[2])<<24 |
		uint64(node[3])<<16 | uint64(node[4])<<8 | uint64(node[5])

	return uuid.FromBits(msb, lsb)
}

// StableServer manages one StableGenerator per service tag, serving as the
// main entry point for persistent v1 generation.
type StableServer struct {
	dao        *StateDAO
	generators map[string]*StableGenerator
	mu         sync.RWMutex // reads/writes to generators map protected
}

// NewStableServer creates a new StableServer with the given DB connection string.
func NewStableServer(dsn string) (*StableServer, error) {
	dao, err := NewStateDAO(dsn)
	if err != nil {
		return nil, err
	}

	return &StableServer{
		dao:        dao,
		generators: make(map[string]*StableGenerator),
	}, nil
}

// NextUUID returns the next version 1 UUID for the chosen service tag,
// leasing state on first use. Thread safe.
func (s *StableServer) NextUUID(serviceTag string) (uuid.UUID, error) {
	// Fast path with read lock: check if the generator exists.
	s.mu.RLock()
	gen, ok := s.generators[serviceTag]
	s.mu.RUnlock()

	if ok {
		return gen.NextUUID(), nil
	}

	// Fallback: lease a new generator (write lock required).
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double check in case another goroutine created the generator in between locks.
	gen, ok = s.generators[serviceTag]
	if ok {
		return gen.NextUUID(), nil
	}

	gen = NewStableGenerator(serviceTag, s.dao)
	if err := gen.Init(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to lease generator state: %w", err)
	}

	s.generators[serviceTag] = gen
	return gen.NextUUID(), nil
}

func main() {
	cfg, err := loadConfig("stableclock.yaml")
	if err != nil {
		log.Fatal(err)
	}

	server, err := NewStableServer(cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Stable Clock Server Started...")

	var wg sync.WaitGroup
	start := time.Now()

	var mu sync.Mutex
	seen := make(map[uuid.UUID]bool, cfg.Routines*cfg.PerRoutine)

	// Simulate concurrent workers drawing persistent v1 identifiers.
	for i := 0; i < cfg.Routines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < cfg.PerRoutine; j++ {
				id, err := server.NextUUID(cfg.ServiceTag)
				if err != nil {
					log.Printf("Error: %v", err)
					continue
				}
				mu.Lock()
				if seen[id] {
					log.Printf("Duplicate UUID issued: %s", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)
	log.Printf("Total time: %s, %d unique v1 UUIDs generated", elapsed, len(seen))
}
