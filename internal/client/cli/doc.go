// Package cli provides the interactive balance command-line client.
//
// It wires configuration, the local SQLite cache, the API services and a
// line-oriented REPL. Typical flow: restore the saved session, start a
// background connectivity watcher, then execute user commands.
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Direct messages: send, unread inbox, chat history, recent chats
//   - .balance / .causality file encoding, including images
//   - Sending encoded files as chat attachments and saving them back
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
