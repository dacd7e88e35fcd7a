// Package testutil contains helpers used across tests to reduce boilerplate
// when driving workloads without a runner and when asserting the values
// published on state streams. They are not intended for production usage.
package testutil
