// Package bundle implements aggregation: walking input directories, selecting
// files by suffix and appending each one to an output file as a section with a
// source-path header.
//
// Aggregator handles a single root directory. Driver runs every configured
// group in order, truncating outputs first, skipping missing input folders
// with a warning and producing a models.RunResult.
//
// A text section is byte-for-byte:
//
//	\n
//	# ----------------------------------------\n
//	# File: backend/routes/taskRoutes.js\n
//	# ----------------------------------------\n
//	\n
//	<file content>\n
package bundle
