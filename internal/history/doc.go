// Package history persists consumed work assignments in SQLite for
// reporting. The text archive file stays the durable record of consumed
// lines; this store exists so the CLI can answer "what did this machine
// work on" without re-parsing archives.
package history
