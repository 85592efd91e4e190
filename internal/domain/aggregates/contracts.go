package aggregates

// WriteTxOwnership says which layer opens the transaction for a write.
type WriteTxOwnership string

const (
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
	WriteTxOwnedByCaller    WriteTxOwnership = "caller_owned"
)

// ReadPolicy says which reads an aggregate may serve.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped limits the aggregate to reads its writes need,
	// plus the guarded single-application read.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries leaves list and analytics reads to table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// Describe flattens the contract into logger key/value pairs.
func (c Contract) Describe() []any {
	return []any{
		"aggregate", c.Name,
		"tx_ownership", string(c.WriteTxOwnership),
		"read_policy", string(c.ReadPolicy),
	}
}
