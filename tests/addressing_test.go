package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
)

// TestNamespacedIDs verifies that addressing is agnostic to id formatting:
// directory-style ids resolve through nested containers exactly like flat
// ones, so hosts can namespace ("modules/checkout/email") without the
// interpreter caring.
func TestNamespacedIDs(t *testing.T) {
	it, _ := newInterpreter()

	// 1. A form subtree whose members carry namespaced ids.
	runScript(t, it, `[
		{"type": "heading", "props": {"text": "Checkout"}},
		{"type": "form", "props": {"id": "modules/checkout"}, "commands": [
			{"type": "input", "props": {"id": "modules/checkout/email", "label": "Email"}},
			{"type": "paragraph", "props": {"id": "modules/checkout/hint", "text": "We never spam."}}
		]}
	]`)

	// 2. Find reaches every depth by full id.
	require.NotNil(t, it.Find("modules/checkout"))
	require.NotNil(t, it.Find("modules/checkout/email"))
	require.NotNil(t, it.Find("modules/checkout/hint"))
	require.Nil(t, it.Find("modules/checkout/missing"))

	// 3. Visibility commands address the nested node.
	runScript(t, it, `[{"type": "hide", "props": {"id": "modules/checkout/hint"}}]`)
	require.True(t, it.Find("modules/checkout/hint").Hidden)

	runScript(t, it, `[{"type": "show", "props": {"id": "modules/checkout/hint"}}]`)
	require.False(t, it.Find("modules/checkout/hint").Hidden)

	// 4. Interaction addresses the nested input.
	ctx := context.Background()
	require.NoError(t, it.SetValue(ctx, "modules/checkout/email", "ada@example.com"))
	require.Equal(t, "ada@example.com", it.State().GetString("modules/checkout/email"))
}

// TestFindSearchesAllRegions verifies the lookup order across render regions:
// the main output first, then the dynamic region where trigger output lands.
func TestFindSearchesAllRegions(t *testing.T) {
	it, surface := newInterpreter()

	runScript(t, it, `[
		{"type": "button", "props": {"id": "reveal", "label": "Reveal", "onClick": [
			{"type": "paragraph", "props": {"id": "revealed", "text": "now you see me"}}
		]}}
	]`)

	require.Nil(t, it.Find("revealed"), "dynamic node must not exist before activation")
	require.NoError(t, it.Activate(context.Background(), "reveal"))

	node := it.Find("revealed")
	require.NotNil(t, node, "dynamic node must be addressable after activation")
	require.Equal(t, "now you see me", node.Text)
	require.True(t, containsText(surface.Dynamic(), "now you see me"))
}

// TestScratchKeepsTriggersAddressable covers hosts with no dynamic region:
// trigger output goes to a detached scratch container that is never shown,
// but its nodes stay addressable so chained interactions still work.
func TestScratchKeepsTriggersAddressable(t *testing.T) {
	surface := headless.New(headless.WithoutDynamic())
	it := flux.New(flux.WithSurface(surface))

	runScript(t, it, `[
		{"type": "button", "props": {"id": "first", "label": "First", "onClick": [
			{"type": "button", "props": {"id": "second", "label": "Second", "onClick": [
				{"type": "paragraph", "props": {"id": "depth-two", "text": "chained"}}
			]}}
		]}}
	]`)

	ctx := context.Background()
	require.NoError(t, it.Activate(ctx, "first"))

	// The second trigger only exists in scratch, and firing it works.
	require.NotNil(t, it.Find("second"))
	require.NoError(t, it.Activate(ctx, "second"))
	require.NotNil(t, it.Find("depth-two"))

	// Nothing leaked into the visible output.
	require.False(t, containsText(surface.Output(), "chained"))
}
