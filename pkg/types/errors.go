package types

import "errors"

// Sentinel errors for site operations.
// These enable reliable error checking with errors.Is()
var (
	// ErrInvalidQuantity indicates a negative resource amount on submission
	ErrInvalidQuantity = errors.New("invalid resource quantity")

	// ErrInvalidTask indicates a task without a name
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidWorker indicates a worker without a name
	ErrInvalidWorker = errors.New("invalid worker")

	// ErrNotFound indicates no worker matches the given name
	ErrNotFound = errors.New("worker not found")

	// ErrDuplicateWorker indicates a worker with the same name is already on the roster
	ErrDuplicateWorker = errors.New("worker already on roster")

	// ErrInvalidProficiency indicates a negative proficiency on hire
	ErrInvalidProficiency = errors.New("invalid proficiency")

	// ErrInsufficientResources indicates a task demands more than the pool holds
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrWorkerCapacityExhausted indicates every worker went to rest mid-task
	ErrWorkerCapacityExhausted = errors.New("no available workers to complete the task")

	// ErrNoRestingWorkers indicates a recall with nobody on break
	ErrNoRestingWorkers = errors.New("no workers on break to return")
)
