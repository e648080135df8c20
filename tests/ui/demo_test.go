package ui_test

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	httpadapter "github.com/hashhooshy/flux-labs/pkg/adapters/http"
)

// TestDemoUI_ExhaustiveFlow drives the built-in /ui demo page in a real
// browser: paste a script, render it against the server, and check the
// injected fragment. Needs a local Chrome; go-rod downloads one otherwise.
func TestDemoUI_ExhaustiveFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	// 1. Start HTTP Server
	handler, err := httpadapter.NewHandler(httpadapter.Config{})
	if err != nil {
		t.Fatalf("Failed to build handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	defer ts.Close()

	// 2. Setup rod browser
	// Headless mode: set FLUX_TEST_HEADLESS=false to open a visible browser window for debugging.
	headless := os.Getenv("FLUX_TEST_HEADLESS") != "false"
	t.Logf("Headless mode: %v (set FLUX_TEST_HEADLESS=false to disable)", headless)
	// Disable Leakless so it doesn't fail extracting into AppData temp on Windows
	u := launcher.New().Headless(headless).Leakless(false).MustLaunch()
	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	// Incognito to avoid cross-pollination
	incognito := browser.MustIncognito()
	page := incognito.MustPage(ts.URL + "/ui")

	// Timeout for safety
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	page = page.Context(ctx)

	// -- A. Page chrome --
	t.Log("Testing demo page load...")
	page.MustElement("#script").MustWaitLoad()
	page.MustElement("#render").MustWaitVisible()

	// -- B. Default script renders --
	t.Log("Testing default script render...")
	page.MustElement("#render").MustClick()
	page.MustElementR("#target h2", "Hello from flux").MustWaitVisible()
	page.MustElementR("#target p", "Rendered over HTTP").MustWaitVisible()
	page.MustElementR("#target span.badge", "live").MustWaitVisible()

	// -- C. A richer script through the textarea --
	t.Log("Testing widget-heavy script...")
	page.MustEval(`() => {
		document.getElementById('script').value = JSON.stringify([
			{type: "heading", props: {text: "Signup", level: 1}},
			{type: "form", props: {id: "signup", title: "Join us"}, commands: [
				{type: "input", props: {id: "name", label: "Your name"}},
				{type: "dropdown", props: {id: "plan", label: "Plan", options: ["free", "pro"]}}
			]},
			{type: "list", props: {items: ["fast", "small"], listStyle: "numbered"}},
			{type: "table", props: {headers: ["svc", "state"], rows: [["api", "up"]]}}
		]);
	}`)
	page.MustElement("#render").MustClick()
	page.MustElementR("#target h1", "Signup").MustWaitVisible()
	page.MustElement("#target form#signup input#name")
	page.MustElementR("#target ol li", "fast").MustWaitVisible()
	page.MustElementR("#target table th", "svc").MustWaitVisible()
	page.MustElementR("#target table td", "up").MustWaitVisible()

	// -- D. Chart and progress markup --
	t.Log("Testing chart fallback markup...")
	page.MustEval(`() => {
		document.getElementById('script').value = JSON.stringify([
			{type: "progress", props: {label: "Disk", value: 30, max: 40}},
			{type: "chart", props: {title: "Load", chartType: "bar", labels: ["api", "db"], data: [4, 2]}}
		]);
	}`)
	page.MustElement("#render").MustClick()
	page.MustElementR("#target div.progress-label", "Disk").MustWaitVisible()
	page.MustElementR("#target div.chart-title", "Load").MustWaitVisible()
	page.MustElementR("#target span.chart-bar-label", "api").MustWaitVisible()

	// -- E. Client-side decode failure --
	t.Log("Testing broken JSON feedback...")
	page.MustEval(`() => { document.getElementById('script').value = "this is not json"; }`)
	page.MustElement("#render").MustClick()
	page.MustElementR("#target", "SyntaxError").MustWaitVisible()

	// -- F. Contract rejection from the server --
	t.Log("Testing contract rejection...")
	page.MustEval(`() => {
		document.getElementById('script').value = JSON.stringify([{props: {text: "typeless"}}]);
	}`)
	page.MustElement("#render").MustClick()
	page.MustElementR("#target", "Invalid request").MustWaitVisible()

	t.Log("Demo UI flow succeeded!")
}
