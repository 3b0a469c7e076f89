// zknode gives version 1 UUID generators a stable node identity coordinated
// through ZooKeeper. Each worker registers under a per-service path, recovers
// its 48-bit node across restarts from ZooKeeper or a local cache file,
// refuses to start after a clock rollback, and heartbeats its last known
// timestamp so rollbacks stay visible while running.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/lab2439/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// Difference in 100-nanosecond intervals between the UUID epoch
	// (October 15, 1582) and the Unix epoch (January 1, 1970).
	epochStart = 122192928000000000

	ticksPerMilli = 10000 // 100-nanosecond intervals per millisecond

	// Refuse to generate when the wall clock falls this far behind the last
	// issued timestamp; smaller regressions ride the tick counter.
	maxRollbackTicks = 5 * ticksPerMilli

	zkRootPath        = "/uuid_v1_nodes" // root path in ZooKeeper for node registration
	heartbeatInterval = 3 * time.Second
)

// Config is read from zknode.yaml; a missing file keeps the defaults.
type Config struct {
	Servers []string `yaml:"servers"`
	Service string   `yaml:"service"`
	Port    int      `yaml:"port"`
}

func defaultConfig() *Config {
	return &Config{
		Servers: []string{"127.0.0.1:2181"},
		Service: "order-service",
		Port:    8080,
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

// NodeDriver maintains v1 generation state and the ZooKeeper session.
type NodeDriver struct {
	mu        sync.Mutex // ensures safe concurrent access to the clock state
	lastTicks int64      // last issued timestamp, 100ns ticks since the UUID epoch
	clockSeq  uint16     // 14-bit clock sequence, freshly drawn per boot
	node      [6]byte    // registered node identity

	zkClient *zk.Conn // ZooKeeper client connection
	service  string   // service name (affects the ZK node path)
	port     int      // port (used to derive node uniqueness)
}

// NodeInfo is the state stored for each worker in both ZooKeeper and the
// local cache file.
type NodeInfo struct {
	Node       string `json:"node"`        // 6 node bytes, hex
	LastTime   int64  `json:"last_time"`   // last heartbeat, Unix milliseconds
	CreateTime int64  `json:"create_time"` // registration timestamp, Unix milliseconds
}

// NewNodeDriver connects to ZooKeeper, registers or recovers this worker's
// node identity, and starts the heartbeat.
func NewNodeDriver(zkServers []string, serviceName string, port int) (*NodeDriver, error) {
	driver := &NodeDriver{
		service: serviceName,
		port:    port,
	}

	c, _, err := zk.Connect(zkServers, time.Second*5) // Connect to ZooKeeper
	if err != nil {
		return nil, fmt.Errorf("connect zk failed: %w", err)
	}
	driver.zkClient = c

	node, err := driver.registerOrRecover() // Register or recover the node identity
	if err != nil {
		return nil, err
	}
	driver.node = node

	// A fresh random clock sequence per boot disambiguates identifiers
	// issued before and after a restart (RFC 4122 section 4.1.5).
	var buf [2]byte
	if _, err := io.ReadFull(uuid.SecureSource(), buf[:]); err != nil {
		return nil, err
	}
	driver.clockSeq = binary.BigEndian.Uint16(buf[:]) & 0x3FFF

	log.Printf("node driver initialized with node: %s", hex.EncodeToString(node[:]))

	// Periodically upload heartbeat and update state in ZooKeeper and the cache
	go driver.scheduledUploadTime()
	return driver, nil
}

// nodeKey is this worker's path in ZooKeeper: /uuid_v1_nodes/<service>/node-<port>.
func (d *NodeDriver) nodeKey() string {
	return fmt.Sprintf("%s/%s/node-%d", zkRootPath, d.service, d.port)
}

// registerOrRecover registers this worker in ZooKeeper or recovers its node
// identity from ZooKeeper or the local cache.
func (d *NodeDriver) registerOrRecover() ([6]byte, error) {
	var node [6]byte

	servicePath := fmt.Sprintf("%s/%s", zkRootPath, d.service)
	if err := d.ensurePath(servicePath); err != nil {
		return node, fmt.Errorf("ensure path failed: %w", err)
	}

	nodeKey := d.nodeKey()

	var info NodeInfo
	now := time.Now().UnixMilli()

	exists, _, err := d.zkClient.Exists(nodeKey)
	if err != nil {
		return node, fmt.Errorf("check node existence failed: %w", err)
	}

	if exists {
		// Recover the node identity from ZooKeeper.
		data, _, err := d.zkClient.Get(nodeKey)
		if err != nil {
			return node, fmt.Errorf("get node info failed: %w", err)
		}
		if err := json.Unmarshal(data, &info); err != nil {
			return node, fmt.Errorf("decode node info failed: %w", err)
		}

		// Detect a system clock rollback against the registered state.
		if now < info.LastTime {
			return node, fmt.Errorf("clock moved backwards: %d < %d", now, info.LastTime)
		}

		log.Printf("recovered node %s from zk", info.Node)
	} else if cached, cacheErr := d.loadLocalCache(); cacheErr == nil {
		// Not registered in ZooKeeper; the local cache is the fallback.
		info = cached
		if now < info.LastTime {
			return node, fmt.Errorf("clock moved backwards: %d < %d", now, info.LastTime)
		}
		info.LastTime = now
		log.Printf("recovered node %s from local cache", info.Node)
	} else {
		// Nothing found anywhere: mint a fresh identity. The multicast bit
		// marks it as randomly generated rather than a hardware address
		// (RFC 4122 section 4.5).
		var buf [6]byte
		if _, err := io.ReadFull(uuid.SecureSource(), buf[:]); err != nil {
			return node, err
		}
		buf[0] |= 0x01
		info = NodeInfo{
			Node:       hex.EncodeToString(buf[:]),
			LastTime:   now,
			CreateTime: now,
		}
	}

	raw, err := hex.DecodeString(info.Node)
	if err != nil || len(raw) != 6 {
		return node, fmt.Errorf("corrupt node identity: %q", info.Node)
	}
	copy(node[:], raw)

	// Register or update the node info in ZooKeeper
	data, _ := json.Marshal(info)
	if exists {
		_, err = d.zkClient.Set(nodeKey, data, -1)
	} else {
		_, err = d.zkClient.Create(nodeKey, data, 0, zk.WorldACL(zk.PermAll))
	}
	if err != nil {
		return node, fmt.Errorf("register or update node info failed: %w", err)
	}

	// Save to a local cache file for recovery without ZooKeeper
	d.saveLocalCache(info)
	return node, nil
}

// NextUUID issues the next version 1 UUID under this worker's registered
// node identity. Thread safe.
func (d *NodeDriver) NextUUID() (uuid.UUID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().UnixMilli()*ticksPerMilli + epochStart

	// Runtime clock rollback check
	if now < d.lastTicks-maxRollbackTicks {
		return uuid.Nil, fmt.Errorf("clock moved backwards %dms, refusing to generate",
			(d.lastTicks-now)/ticksPerMilli)
	}
	if now <= d.lastTicks {
		// Same millisecond or a small regression: advance through the
		// 10000-tick budget a millisecond of 100ns intervals provides.
		now = d.lastTicks + 1
	}
	d.lastTicks = now

	timeLow := uint64(now) & 0xFFFFFFFF
	timeMid := uint64(now) >> 32 & 0xFFFF
	timeHi := uint64(now)>>48&0x0FFF | 0x1000 // version 1

	msb := timeLow<<32 | timeMid<<16 | timeHi
	lsb := uint64(d.clockSeq|0x8000)<<48 | // variant 10xx xxxx
		uint64(d.node[0])<<40 | uint64(d.node[1])<<32 | uint64(d.node[2])<<24 |
		uint64(d.node[3])<<16 | uint64(d.node[4])<<8 | uint64(d.node[5])

	return uuid.FromBits(msb, lsb), nil
}

// scheduledUploadTime periodically updates this worker's info in ZooKeeper
// and the local cache.
func (d *NodeDriver) scheduledUploadTime() {
	ticker := time.NewTicker(heartbeatInterval)
	nodeKey := d.nodeKey()

	for range ticker.C {
		now := time.Now().UnixMilli()

		d.mu.Lock()
		lastMilli := (d.lastTicks - epochStart) / ticksPerMilli
		d.mu.Unlock()

		// A wall clock behind the last issued timestamp means it rolled back
		// while running; skip the update so recovery still sees the highest time.
		if now < lastMilli {
			log.Printf("clock rollback detected during heartbeat: local %d, last issued %d", now, lastMilli)
			continue
		}

		info := NodeInfo{
			Node:     hex.EncodeToString(d.node[:]),
			LastTime: now,
		}
		data, _ := json.Marshal(info)

		// Ignore errors: ZooKeeper may occasionally be unavailable and the
		// next tick retries.
		d.zkClient.Set(nodeKey, data, -1)

		// Update the local file cache as well
		d.saveLocalCache(info)
	}
}

// ensurePath creates each component of a ZooKeeper path that does not exist yet.
func (d *NodeDriver) ensurePath(path string) error {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	cur := ""
	for _, part := range parts {
		cur += "/" + part
		exists, _, err := d.zkClient.Exists(cur)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := d.zkClient.Create(cur, []byte{}, 0, zk.WorldACL(zk.PermAll)); err != nil && err != zk.ErrNodeExists {
				return err
			}
		}
	}
	return nil
}

// saveLocalCache saves the given NodeInfo to a file for local state recovery.
func (d *NodeDriver) saveLocalCache(info NodeInfo) {
	data, _ := json.Marshal(info)
	fileName := fmt.Sprintf(".uuid_node_cache_%d", d.port)
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		log.Printf("write node cache: %v", err)
	}
}

// loadLocalCache loads NodeInfo from the local cache file, if present.
func (d *NodeDriver) loadLocalCache() (NodeInfo, error) {
	fileName := fmt.Sprintf(".uuid_node_cache_%d", d.port)
	data, err := os.ReadFile(fileName)
	if err != nil {
		return NodeInfo{}, err
	}
	var info NodeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return NodeInfo{}, err
	}
	return info, nil
}

func main() {
	// NOTE: This program requires a ZooKeeper at the configured address.
	// You can use Docker to start one for local testing:
	// docker run --name some-zookeeper -p 2181:2181 -d zookeeper

	cfg, err := loadConfig("zknode.yaml")
	if err != nil {
		log.Fatal(err)
	}

	driver, err := NewNodeDriver(cfg.Servers, cfg.Service, cfg.Port)
	if err != nil {
		log.Fatalf("Failed to init node driver: %v", err)
	}

	log.Println("Start generating v1 UUIDs...")

	var wg sync.WaitGroup
	// Launch 10 goroutines concurrently to generate IDs in parallel,
	// each generating 100 IDs
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id, err := driver.NextUUID()
				if err != nil {
					log.Println(err)
				} else {
					fmt.Println(id)
				}
			}
		}()
	}
	wg.Wait()
	log.Println("Done.")
}
