package model

import "github.com/pkg/errors"

// ErrNotFound denotes that the requested item was not
// found in the store.
var ErrNotFound = errors.New("not found")
