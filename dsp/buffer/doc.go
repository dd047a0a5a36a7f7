// Package buffer provides the preallocated sample storage used on the audio
// thread: a fixed-capacity Buffer and the two-buffer PingPong arena that
// threads a block through processing stages without copying or allocating.
package buffer
