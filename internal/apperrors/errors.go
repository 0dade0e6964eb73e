package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNoFixedPrice indicates that a route has no fixed price in the table and
// requires a custom quote. It is an expected outcome, not a failure.
var ErrNoFixedPrice = errors.New("no fixed price for route")

// ErrUpstream indicates that an external collaborator (rates provider,
// funnel backend) could not be reached or returned an invalid response.
var ErrUpstream = errors.New("upstream service failure")
