// Package cli implements the apiconv command line.
//
// Every command is built fresh from an app value that carries the process
// streams, the resolved cliconfig.CLIConfig and the logger, so commands can
// be run in tests against in-memory buffers. Collection files are read and
// written here; packages portability and bulk never touch the filesystem.
package cli
