/*
Package session coordinates concurrent access to user documents.

It serializes document operations per user with reference-counted local
mutexes, and optionally with a distributed lock so multiple replicas sharing
one persistence backend never interleave a user's read-modify-write cycles.
*/
package session
