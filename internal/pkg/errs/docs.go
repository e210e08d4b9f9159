// Package errs provides standardized error types for the orders application.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package includes error types for the failure taxonomy of the service:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed or out of its domain
//   - ValueIsOutOfRangeError: a bounded value is outside its range
//   - ObjectNotFoundError: a lookup by identifier matched nothing
//   - ForbiddenError: a role or ownership check failed
//   - InvalidTransitionError: a state change the transition table disallows,
//     including updates lost to a concurrent state change
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// The HTTP adapter maps these sentinels to response codes at the boundary;
// nothing inside the core inspects error message text.
package errs
