// Package store provides conversation history management for agent runs.
//
// [MessageStore] holds an ordered message history with optional
// persistence through the [Adapter] interface. The default
// [MemoryAdapter] keeps everything in memory, which fits the
// stateless-per-request chat handler: each run builds its history from
// the submitted messages and discards it afterwards.
package store
