// Package config loads optional lumins settings from a file.
//
//	            +-------------+
//	            |   Config    |
//	            | (Settings)  |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   YAML   | |   JSON   | |   HCL    |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//
// 🎯 Purpose:
// - Keep defaults such as thread count and exclude globs out of every command line
// - Pick the parser from the file extension
// - Reject unknown keys and invalid values before a run starts
//
// 🔄 Flow:
// 1. Load reads the file and selects a registered Parser
// 2. The parser decodes into Config
// 3. Validate checks thread count, exclude globs and debounce
//
// Command line flags always win over file values; boolean flags are OR'ed
// with the file so a file cannot switch off a flag given on the command line.
//
// 🔍 Example (YAML):
//
//	threads: 8
//	checksum: true
//	exclude:
//	  - "**/.git"
//	  - "*.tmp"
//	debounce: 250ms
//
// 🔍 Example (HCL):
//
//	threads  = env.LUMINS_THREADS
//	nodelete = true
//	exclude  = ["node_modules", "**/*.o"]
package config
