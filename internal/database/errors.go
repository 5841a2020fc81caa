package database

import "errors"

// ErrNotFound is returned by lookups whose subject does not exist. Progress
// and queue lookups are the exception: absence is a normal state for them,
// so they return (nil, nil) instead.
var ErrNotFound = errors.New("not found")
