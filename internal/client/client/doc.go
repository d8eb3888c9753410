// Package client contains client-side building blocks for notekeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     key parameter lookup, the caller's profile, item creation, data size and
//     signature, backup download and feature disabling.
//  2. A concrete gRPC implementation (see GRPCClient) that attaches the access
//     token via an interceptor, bounds each call by a timeout and maps gRPC
//     status codes to sentinel errors.
//  3. Local cache bootstrap (InitDatabase, RunMigrations) wiring an SQLite
//     database and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match errors with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrInvalidArgument, ErrBadResponse, common.ErrorNotFound and
// common.ErrUnsupportedSchemeVersion.
package client
