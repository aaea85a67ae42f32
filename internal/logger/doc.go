// Package logger wraps zap for the countdown commands.
//
// It keeps one global sugared logger writing console lines to stderr, so that
// stdout stays free for command output, and lets callers scope that logger
// through a context (ToContext/FromContext/WithName/WithKV/WithFields).
package logger
