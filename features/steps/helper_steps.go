//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"clipharvest/cmd"
	"clipharvest/domain/clip"
	"clipharvest/domain/site"

	"github.com/cucumber/godog"
)

type helperContext struct {
	output *bytes.Buffer
	err    error
}

var SharedHelperContext = &helperContext{}

func InitializeHelperScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedHelperContext = &helperContext{output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.Step(`^I resolve the URLs:$`, iResolveTheURLs)
	ctx.Step(`^I check the range "([^"]*)"$`, iCheckTheRange)
	ctx.Step(`^the helper should succeed$`, theHelperShouldSucceed)
	ctx.Step(`^the helper should fail$`, theHelperShouldFail)
	ctx.Step(`^the helper output should contain "([^"]*)"$`, theHelperOutputShouldContain)
}

func iResolveTheURLs(table *godog.Table) error {
	h := SharedHelperContext
	var urls []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		urls = append(urls, row.Cells[0].Value)
	}
	h.err = cmd.RunResolveWithDependencies(site.DefaultRegistry(), "videos", urls, h.output)
	return nil
}

func iCheckTheRange(expr string) error {
	h := SharedHelperContext
	resolver := clip.NewWindowResolver(nil, clip.DefaultDelimiter, clip.DefaultMinDuration)
	h.err = cmd.RunWindowWithDependencies(resolver, []string{expr}, h.output)
	return nil
}

func theHelperShouldSucceed() error {
	if err := SharedHelperContext.err; err != nil {
		return fmt.Errorf("unexpected error: %v\n%s", err, SharedHelperContext.output.String())
	}
	return nil
}

func theHelperShouldFail() error {
	if SharedHelperContext.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}

func theHelperOutputShouldContain(text string) error {
	out := SharedHelperContext.output.String()
	if !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}
