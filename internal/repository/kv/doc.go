// Package kv implements the key-value list storage the timer store persists to.
//
// A Backend keeps ordered lists of strings under string keys. FileBackend
// stores every key in one JSON document, SQLiteBackend keeps one row per list
// element, and MemoryBackend keeps everything in process memory.
package kv
