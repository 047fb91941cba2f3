// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package billing

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")
