// Package cli provides the notekeeper command-line client.
//
// A command given on the command line runs once (see App.Run); without one
// an interactive loop is started. Commands cover key parameter lookup and
// local key derivation, the account's data size, ranking and signature,
// backups, and enabling or disabling account features.
package cli
