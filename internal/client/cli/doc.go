// Package cli implements finctl, a command-line client for the GophLedger
// HTTP API.
//
// Commands are google/subcommands commands grouped into "auth"
// (register, login, logout) and "reports" (summary, breakdown, budgets,
// export). The bearer token obtained by login is kept in the token file
// named by the configuration; report commands read it from there.
//
// Reports are rendered as Markdown through glamour; pass -raw to print the
// Markdown source instead.
package cli
