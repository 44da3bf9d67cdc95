// Package httputil provides JSON request/response helpers shared by the
// stub backend handlers. Keeping the envelope in one place guarantees every
// error the console sees has the same shape.
package httputil
