// Package temporal implements the streaming engine that moves time-indexed
// image data through a processing graph without materializing whole
// sequences.
//
// # Regions
//
// A Region is a contiguous span of frames described by a start index and a
// duration. Every pipeline edge is a TemporalDataObject carrying three
// regions:
//   - largest possible: everything the producer can ever provide
//   - requested: what the consumer currently wants
//   - buffered: what is resident right now
//
// # Protocol
//
// A ProcessObject sits between an input and an output data object. When the
// downstream consumer asks the output to materialize, the engine runs four
// phases:
//
//  1. EnlargeOutputRequestedRegion rounds the request up to whole output units.
//  2. GenerateInputRequestedRegion derives the input span the request needs.
//  3. UpdateOutputInformation derives the output's largest possible region
//     from the input's (run once per Update, before 1 and 2).
//  4. GenerateData splits the unbuffered part of the request into
//     unit-sized input windows and, for each window, pulls the input and
//     calls the Stage.
//
// Peak memory per edge is bounded by the unit window size rather than by
// the total requested duration.
//
// # Concurrency
//
// Execution is single-threaded and pull-based. A data object is touched by
// exactly one producer and one consumer in strict alternation, so nothing in
// this package takes a lock. Do not share a pipeline between goroutines.
//
// # Errors
//
// All errors are fatal for the current Update and wrap one of the sentinel
// errors; failures tied to a frame span come as *RegionError. Use errors.Is
// to classify them.
package temporal
