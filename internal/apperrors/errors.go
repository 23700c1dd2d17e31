// Package apperrors holds the sentinel errors shared by the repository,
// service and handler layers.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrImportBatchNotFound indicates that an import batch with the given ID does not exist.
	ErrImportBatchNotFound = errors.New("import batch not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidCurrency indicates an unknown or malformed ISO 4217 currency code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrEmptyImport indicates an upload without any data row.
	ErrEmptyImport = errors.New("import contains no rows")

	// ErrUnsupportedSource indicates an import source label that is not recognised.
	ErrUnsupportedSource = errors.New("unsupported import source")

	// ErrInvalidCSV indicates an upload that could not be read as CSV.
	ErrInvalidCSV = errors.New("invalid CSV file")

	// ErrInvalidFlexReport indicates an upload that is not an IBKR Flex XML report.
	ErrInvalidFlexReport = errors.New("invalid IBKR flex report")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToImport               = errors.New("failed to import transactions")
	ErrFailedToRetrieveImports      = errors.New("failed to retrieve import batches")
	ErrFailedToDeleteImport         = errors.New("failed to delete import batch")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToComputeAllocation    = errors.New("failed to compute allocation")
	ErrFailedToComputeReturn        = errors.New("failed to compute return")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)
