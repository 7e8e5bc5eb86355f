package e2e

import (
	"github.com/cucumber/godog"

	"github.com/Dedezuli/mocha-API-sub002/e2e/steps/environment"
	"github.com/Dedezuli/mocha-API-sub002/e2e/steps/registration"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register environment resolution and header steps
	environment.RegisterSteps(ctx, tc)

	// Register borrower registration steps
	registration.RegisterSteps(ctx, tc)
}
