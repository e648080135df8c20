// Command gen-pages seeds a demo page library on disk. It acts as a "level
// editor" for the run, pages, export and watch commands: each page is a Loam
// document whose body is a command script.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/loam"

	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
)

func main() {
	targetDir := "examples/pages/library"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating page library in: %s\n", targetDir)

	// Init Loam (No Versioning = pure file generation)
	repo, err := loam.Init(targetDir, loam.WithVersioning(false))
	if err != nil {
		panic(err)
	}

	typedRepo := loam.NewTypedRepository[loamlib.PageMetadata](repo)
	ctx := context.TODO()

	// 1. Index (landing page with navigation triggers)
	err = typedRepo.Save(ctx, &loam.DocumentModel[loamlib.PageMetadata]{
		ID: "index",
		Data: loamlib.PageMetadata{
			Title:       "Welcome",
			Description: "Landing page with a greeting and a couple of triggers.",
			Tags:        []string{"demo"},
		},
		Content: `- type: heading
  props:
    text: Welcome to Flux
- type: paragraph
  props:
    text: This page was generated by gen-pages. Edit it and re-run with --watch.
- type: divider
- type: button
  props:
    label: Say hello
    id: hello
    onClick:
      - type: alert
        props:
          text: Hello from the index page!
          severity: info
`,
	})
	check(err)

	// 2. Signup (form feeding the document store)
	err = typedRepo.Save(ctx, &loam.DocumentModel[loamlib.PageMetadata]{
		ID: "signup",
		Data: loamlib.PageMetadata{
			Title:       "Signup",
			Description: "Form whose submit persists the entered name.",
			Tags:        []string{"demo", "forms"},
		},
		Content: `- type: heading
  props:
    text: Create your profile
- type: form
  props:
    id: signup
  commands:
    - type: input
      props:
        id: name
        label: Name
        placeholder: Ada
    - type: toggle
      props:
        id: newsletter
        label: Subscribe to the newsletter
- type: submit
  props:
    label: Save
    formId: signup
    onClick:
      - type: store
        props:
          id: profile-name
          value: "{name}"
      - type: paragraph
        props:
          text: "Saved, {name}!"
`,
	})
	check(err)

	// 3. Dashboard (wide widget coverage)
	err = typedRepo.Save(ctx, &loam.DocumentModel[loamlib.PageMetadata]{
		ID: "dashboard",
		Data: loamlib.PageMetadata{
			Title:       "Dashboard",
			Description: "Tables, progress and a chart on one page.",
			Tags:        []string{"demo", "widgets"},
		},
		Content: `- type: heading
  props:
    text: Service dashboard
- type: badge
  props:
    text: live
    color: green
- type: table
  props:
    headers: [Service, Status]
    rows:
      - [api, up]
      - [worker, up]
      - [cache, degraded]
- type: progress
  props:
    label: Rollout
    value: 64
    max: 100
- type: loop
  props:
    count: 3
  commands:
    - type: paragraph
      props:
        text: "Replica {loopIndex} is healthy."
- type: chart
  props:
    chartType: bar
    title: Requests per region
    labels: [eu, us, apac]
    data: [120, 200, 80]
`,
	})
	check(err)

	fmt.Println("Done. Verify contents in", targetDir)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
