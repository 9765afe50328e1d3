package diff

// ExecutionResult is one engine run's outcome, comparable against a
// Vector's expectation or against another ExecutionResult (the
// cross-implementation diff case spec §4.8 names). Grounded on
// `original_source/src/neo/tools/diff/models.py`'s `ExecutionResult`.
type ExecutionResult struct {
	State         string
	GasConsumed   int64
	Stack         []StackValue
	Notifications []string
	Exception     string
}
