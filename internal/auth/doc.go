// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package auth implements the credential registration and authentication
// workflows for Ledgerdash.
//
// # Domain Types
//
// User should be created through NewUser, which validates the fields a
// repository relies on. Session should be created through NewSession. Direct
// struct initialization bypasses validation and may create invalid state.
//
// # Workflows
//
//   - RegistrationService - validate, duplicate-check, hash, persist
//   - AuthService - validate, look up, verify, establish session
//   - SessionManager - DB-backed session establishment and validation
//
// Expected outcomes (validation failures, duplicate accounts, invalid
// credentials) are returned as structured results; only storage and
// connectivity failures surface as errors.
package auth
