package flux

import (
	"context"
	"fmt"
	"io"

	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// Run decodes a JSON or YAML script and executes it against the surface's
// main output. Decode failures are returned before anything renders.
func (it *Interpreter) Run(ctx context.Context, script []byte) error {
	cmds, err := schema.Decode(script)
	if err != nil {
		return fmt.Errorf("decode script: %w", err)
	}
	return it.Execute(ctx, cmds)
}

// RunReader reads a complete script from r and executes it. Hosts pass
// request bodies or stdin here.
func (it *Interpreter) RunReader(ctx context.Context, r io.Reader) error {
	script, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return it.Run(ctx, script)
}
