package aggregates

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// LockPolicy names how concurrent writers to the same aggregate are serialized.
type LockPolicy string

const (
	// LockPolicyOptimistic rejects a write whose expected version is stale.
	LockPolicyOptimistic LockPolicy = "optimistic_version"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	LockPolicy       LockPolicy
	Notes            string
}

// Aggregate is the common marker for aggregate write boundaries.
type Aggregate interface {
	Contract() Contract
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// GameAggregateContract governs every write to a game and its lineups, actions and
// strategies.
var GameAggregateContract = Contract{
	Name:             "game",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	LockPolicy:       LockPolicyOptimistic,
	Notes:            "load, mutate and version-checked update run in one transaction; action rows are append-only",
}
