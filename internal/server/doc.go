// Package server exposes resume generation over a small HTTP API.
package server
