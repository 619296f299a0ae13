// Package server implements the MCP (Model Context Protocol) server for the
// video pipeline tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Sequence Information:
//   - sequence_info: Frame count, region and first-frame metadata of a directory
//   - sequence_sample_color: Color at a pixel of one frame
//
// Pipeline Operations:
//   - pipeline_run: Stream a pipeline's output to disk
//   - pipeline_frame: Compute one output frame and return it as PNG
//
// # Caching
//
// Decoded frames used for sampling are kept in a bounded LRU cache. Built
// pipelines are cached by definition as well, so consecutive pipeline_frame
// calls over neighbouring frames reuse the windows already buffered by each
// stage instead of decoding them again.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv, err := server.New(version, 0)
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
package server
