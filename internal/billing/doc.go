// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package billing implements the invoice and customer form workflows of the
// dashboard. Each operation follows the same shape as registration:
// validate the submission, run one parameterized statement, redirect.
package billing
