package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Strategy selects how document identifiers are derived.
type Strategy int

const (
	// StrategyUUID assigns a random UUID per document. Re-running an
	// ingestion duplicates documents under new ids.
	StrategyUUID Strategy = iota

	// StrategySequential assigns 1-based positions continuing from the
	// index's current size, so re-running a batch appends duplicates under
	// fresh ids.
	StrategySequential

	// StrategyHash derives md5(title+content), so identical input always
	// maps to the same id and re-ingestion overwrites instead of duplicating.
	StrategyHash
)

// DefaultStrategy applies when configuration omits id_strategy.
const DefaultStrategy = StrategyUUID

// ParseStrategy maps a config value onto a Strategy. The empty string is the
// default; anything else unknown is a configuration error.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "uuid":
		return StrategyUUID, nil
	case "sequential":
		return StrategySequential, nil
	case "hash":
		return StrategyHash, nil
	default:
		return DefaultStrategy, fmt.Errorf("unknown id strategy %q (available: sequential, hash, uuid)", name)
	}
}

// String returns the config-facing name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyHash:
		return "hash"
	default:
		return "uuid"
	}
}

// assigner hands out ids for one ingestion run. Sequential counters start
// just past the index's current size.
type assigner struct {
	strategy Strategy
	next     int
}

func newAssigner(strategy Strategy, start int) *assigner {
	if start < 1 {
		start = 1
	}
	return &assigner{strategy: strategy, next: start}
}

func (a *assigner) assign(doc RawDocument) string {
	switch a.strategy {
	case StrategySequential:
		id := strconv.Itoa(a.next)
		a.next++
		return id
	case StrategyHash:
		return HashID(doc.Title, doc.Content)
	default:
		return uuid.NewString()
	}
}

// HashID derives the content-addressed document id: the md5 hex digest of
// title concatenated with content.
func HashID(title, content string) string {
	sum := md5.Sum([]byte(title + content))
	return hex.EncodeToString(sum[:])
}
