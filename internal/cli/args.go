package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/inheritx/ixdeploy/internal/app"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// parseArgOverrides turns repeated --arg name=value flags into a map. Later
// flags win.
func parseArgOverrides(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected name=value", f)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// contractArg returns the contract named on the command line, or asks the
// operator to pick one
func contractArg(ctx context.Context, a *app.App, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.Config.NonInteractive || a.Config.JSON {
		names := lo.Map(a.Config.Contracts, func(c models.ContractSpec, _ int) string { return c.Name })
		return "", fmt.Errorf("contract name required, one of: %s", strings.Join(names, ", "))
	}
	spec, err := a.Selector.SelectContract(ctx, a.Config.Contracts, prompt)
	if err != nil {
		return "", err
	}
	return spec.Name, nil
}
