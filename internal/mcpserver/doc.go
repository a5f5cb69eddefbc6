// Package mcpserver exposes Makefile targets over the Model Context Protocol.
// It registers two tools, one listing targets and one running a target, plus
// resources for the raw Makefile and the parsed target collection, and serves
// the protocol over standard input and output. Logging stays on standard
// error so the protocol stream is never polluted.
package mcpserver
