// Package repository defines the persistence contracts of the tuning metadata store.
//
// Every operation takes a context. Writes are atomic: they either commit fully
// (id assigned, timestamps stamped, row visible) or leave no visible effect.
// A context carrying a transaction (tx.WithTx) makes the operation join it.
// Failures are *exception.StoreError values, see the exception package for kinds.
package repository

// TuningRepository is the aggregate repository of the store.
type TuningRepository interface {
	FlowDefinition
	FlowExecution
	TuningAlgorithm
	TuningParameter
	JobSuggestedParamSet
	JobSuggestedParamValue

	// Close releases resources held by the repository. Connections belong to
	// their providers and are not closed here.
	Close() error
}
