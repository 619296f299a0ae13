// Package video provides frame sequences for the temporal engine: the
// FrameSequence data object, leaf sources that read frames from disk or
// generate them, and a Writer that streams a sequence back to disk.
//
// Sources load only the frames a request is missing, so a pipeline over a
// directory of thousands of frames keeps a handful of decoded images alive
// at a time.
package video
