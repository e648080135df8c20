/*
Package runner drives an interpreter over a line-oriented JSON protocol.

It is the embedding bridge for hosts that are not written in Go: a frontend
shell, a test harness, or another language runtime spawns the driver on a
pipe, sends one action per line, and receives one event per line back. Every
successful action is answered with a fresh snapshot of the surface, so the
host never has to track rendering state of its own.

# Protocol

Requests are JSON objects, one per line:

	{"op":"run","commands":[{"type":"heading","props":{"text":"Hi"}}]}
	{"op":"tap","node":"save"}
	{"op":"set","node":"name","value":"Ada"}
	{"op":"snapshot"}
	{"op":"reset"}
	{"op":"quit"}

Responses mirror them:

	{"event":"ok","op":"run","snapshot":{"html":"...","state":{...}}}
	{"event":"error","op":"tap","error":"activate \"x\": node not found"}
	{"event":"denied","op":"run","error":"op \"run\" not permitted"}

A malformed line or a failed action answers with an error event and the
session continues; only I/O breakdown ends the loop. The quit op always
works, regardless of policy.

# Usage

	it := flux.New(flux.WithDocumentStore(store), flux.WithUser(user))
	d := runner.New(it, runner.WithLogger(logger))
	if err := d.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
