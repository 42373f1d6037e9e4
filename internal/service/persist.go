package service

import (
	"github.com/rs/zerolog/log"
)

// reportPersistResult is the single persistence-result policy point: a
// failed write is logged and swallowed, the in-memory mutation stands,
// and memory and durable state may diverge until the next successful
// write. Every mutator funnels its store result through here.
func reportPersistResult(op, key string, err error) {
	if err == nil {
		return
	}
	log.Error().
		Err(err).
		Str("op", op).
		Str("key", key).
		Msg("persist failed; in-memory state retained")
}
