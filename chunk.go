// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

// A ChunkKind identifies what a Chunk carries.
type ChunkKind int

const (
	// HeaderChunk signals that the response status and headers have
	// arrived. It carries no data and is always the first chunk of a
	// successful exchange.
	HeaderChunk ChunkKind = iota
	// DataChunk carries a non-empty piece of the response body.
	DataChunk
	// TimeoutChunk means no chunk arrived before the context passed to
	// Handle.Next was done. It does not end the sequence.
	TimeoutChunk
	// FailedChunk ends the sequence with an error.
	FailedChunk
	// EndChunk ends the sequence successfully: the whole body has been
	// delivered.
	EndChunk
)

var chunkKindNames = []string{
	"Header",
	"Data",
	"Timeout",
	"Failed",
	"End",
}

// String returns the name of the chunk kind.
func (k ChunkKind) String() string {
	if k < 0 || int(k) >= len(chunkKindNames) {
		return "ChunkKind(?)"
	}
	return chunkKindNames[k]
}

// A Chunk is one event in the lazy sequence produced by a Handle.
type Chunk struct {
	Kind ChunkKind
	// Data is set for DataChunk only.
	Data []byte
	// Err is set for TimeoutChunk and FailedChunk.
	Err error
}

// Terminal reports whether c ends its sequence. Once a Handle has
// produced a terminal chunk, every later call to Next returns the same
// chunk again.
func (c Chunk) Terminal() bool {
	return c.Kind == FailedChunk || c.Kind == EndChunk
}
