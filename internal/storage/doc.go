// Package storage provides the generic rumor store: a concurrent two-level
// map of key -> id -> rumor with insert-or-merge semantics and an update
// counter that changes whenever the stored state does.
package storage
