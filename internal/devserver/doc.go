// Package devserver is an in-memory implementation of the attendance backend
// API. It exists so the client can be developed and tested end to end
// without the production backend: same routes, same JSON shapes, bearer
// JWTs and {"detail": "..."} error bodies.
//
// Data lives only in memory and is seeded with a small college on start.
package devserver
